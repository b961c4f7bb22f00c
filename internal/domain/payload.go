package domain

type PayloadKind string

const (
	PayloadTextOnly  PayloadKind = "text_only"
	PayloadImageOnly PayloadKind = "image_only"
	PayloadCombined  PayloadKind = "combined"
)

// RequestPayload is built per consultation and never stored.
type RequestPayload struct {
	Kind  PayloadKind
	Text  string
	Image []byte
}

func (p RequestPayload) HasImage() bool {
	return p.Kind == PayloadImageOnly || p.Kind == PayloadCombined
}

// Draft is input collected by a presentation surface that is waiting for
// the user to pick a mode.
type Draft struct {
	Symptoms  string
	Image     []byte
	ImageName string
}

func (d Draft) Empty() bool {
	return d.Symptoms == "" && len(d.Image) == 0
}
