package types

import (
	"errors"
	"testing"
)

func TestParseVariant(t *testing.T) {
	for _, v := range Variants {
		parsed, err := ParseVariant(string(v))
		if err != nil {
			t.Errorf("ParseVariant(%q): %v", v, err)
		}
		if parsed != v {
			t.Errorf("ParseVariant(%q) = %q", v, parsed)
		}
	}

	for _, bad := range []string{"", "resnet", "UNET", "unet "} {
		if _, err := ParseVariant(bad); !errors.Is(err, ErrUnknownVariant) {
			t.Errorf("ParseVariant(%q) should fail with ErrUnknownVariant, got %v", bad, err)
		}
	}
}

func TestEndpointMappingIsTotal(t *testing.T) {
	seen := make(map[string]Variant, len(Variants))
	for _, v := range Variants {
		endpoint := v.Endpoint()
		if endpoint == "" {
			t.Errorf("variant %q has no endpoint", v)
		}
		if prev, dup := seen[endpoint]; dup {
			t.Errorf("endpoint %q claimed by both %q and %q", endpoint, prev, v)
		}
		seen[endpoint] = v
	}
}

func TestArtifactRefs(t *testing.T) {
	var none *Artifact
	if refs := none.Refs(); len(refs) != 0 {
		t.Errorf("nil artifact should own no refs, got %v", refs)
	}

	img := &Artifact{Kind: ArtifactImage, Image: &ImageArtifact{Ref: "a", ContentType: "image/png"}}
	if refs := img.Refs(); len(refs) != 1 || refs[0] != "a" {
		t.Errorf("image artifact refs = %v", refs)
	}

	structured := &Artifact{Kind: ArtifactStructured, Structured: &StructuredArtifact{
		OriginalRef: "o", MaskRef: "m", OverlayRef: "v",
		Confidence: 0.5, AffectedArea: 1.0,
	}}
	if refs := structured.Refs(); len(refs) != 3 {
		t.Errorf("structured artifact should own 3 refs, got %v", refs)
	}

	partial := &Artifact{Kind: ArtifactStructured, Structured: &StructuredArtifact{
		MaskRef: "m", OverlayRef: "v",
		Confidence: MetricUnknown, AffectedArea: MetricUnknown,
	}}
	if refs := partial.Refs(); len(refs) != 2 {
		t.Errorf("structured artifact without original should own 2 refs, got %v", refs)
	}
}
