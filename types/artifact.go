package types

// ArtifactKind tags which shape the remote service produced.
type ArtifactKind string

const (
	ArtifactImage      ArtifactKind = "image"
	ArtifactStructured ArtifactKind = "structured"
)

// MetricUnknown is the sentinel exposed for scalar metrics the structured
// payload did not carry. Consumers must treat negative values as "not
// reported", never as a measurement.
const MetricUnknown = float64(-1)

// ImageArtifact is a single displayable image returned by the service.
type ImageArtifact struct {
	Ref         string `json:"ref"` // blob handle served via /get-image
	ContentType string `json:"contentType"`
}

// StructuredArtifact is the aerial-style result: named image sub-resources
// plus scalar metrics.
type StructuredArtifact struct {
	OriginalRef  string  `json:"originalRef,omitempty"`
	MaskRef      string  `json:"maskRef"`
	OverlayRef   string  `json:"overlayRef"`
	Confidence   float64 `json:"confidence"`
	AffectedArea float64 `json:"affectedArea"`
}

// Artifact is the tagged union of the two result shapes. Exactly one of
// Image/Structured is non-nil, matching Kind.
type Artifact struct {
	Kind       ArtifactKind        `json:"kind"`
	Image      *ImageArtifact      `json:"image,omitempty"`
	Structured *StructuredArtifact `json:"structured,omitempty"`
}

// Refs returns every blob handle the artifact owns, for release on
// replacement or reset.
func (a *Artifact) Refs() []string {
	if a == nil {
		return nil
	}
	var refs []string
	if a.Image != nil && a.Image.Ref != "" {
		refs = append(refs, a.Image.Ref)
	}
	if a.Structured != nil {
		for _, ref := range []string{a.Structured.OriginalRef, a.Structured.MaskRef, a.Structured.OverlayRef} {
			if ref != "" {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// StructuredResultPayload is the wire shape of a structured prediction
// response. Image fields are base64-encoded PNG data.
type StructuredResultPayload struct {
	OriginalImage string   `json:"original_image,omitempty"`
	MaskImage     string   `json:"mask_image"`
	OverlayImage  string   `json:"overlay_image"`
	Confidence    *float64 `json:"confidence,omitempty"`
	AffectedArea  *float64 `json:"affected_area,omitempty"`
}
