package session

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/store"
	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// classifyResponse turns a raw prediction response into an artifact. Which
// shape arrives is decided entirely by the responding endpoint: a binary
// image body becomes an ImageArtifact, a JSON body with named image
// sub-fields a StructuredArtifact. Handles acquired for a payload that then
// turns out malformed are released before the error returns, so a failure
// never leaks partial artifacts.
func classifyResponse(st *store.Store, resp *inference.PredictResponse) (*types.Artifact, error) {
	contentType := resp.ContentType
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	switch {
	case strings.HasPrefix(contentType, "image/"):
		ref := st.Acquire(resp.Body, contentType)
		return &types.Artifact{
			Kind:  types.ArtifactImage,
			Image: &types.ImageArtifact{Ref: ref, ContentType: contentType},
		}, nil

	case contentType == "application/json":
		return classifyStructured(st, resp.Body)

	default:
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrUnrecognizedResultFormat, contentType)
	}
}

func classifyStructured(st *store.Store, body []byte) (*types.Artifact, error) {
	var payload types.StructuredResultPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedResultFormat, err)
	}
	if payload.MaskImage == "" || payload.OverlayImage == "" {
		return nil, fmt.Errorf("%w: missing mask_image or overlay_image", ErrUnrecognizedResultFormat)
	}

	structured := &types.StructuredArtifact{
		Confidence:   types.MetricUnknown,
		AffectedArea: types.MetricUnknown,
	}
	if payload.Confidence != nil {
		structured.Confidence = *payload.Confidence
	}
	if payload.AffectedArea != nil {
		structured.AffectedArea = *payload.AffectedArea
	}

	acquired := make([]string, 0, 3)
	fail := func(field string, err error) (*types.Artifact, error) {
		for _, ref := range acquired {
			st.Release(ref)
		}
		return nil, fmt.Errorf("%w: bad %s: %v", ErrUnrecognizedResultFormat, field, err)
	}

	acquire := func(encoded string) (string, error) {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", err
		}
		ref := st.Acquire(data, "image/png")
		acquired = append(acquired, ref)
		return ref, nil
	}

	var err error
	if payload.OriginalImage != "" {
		if structured.OriginalRef, err = acquire(payload.OriginalImage); err != nil {
			return fail("original_image", err)
		}
	}
	if structured.MaskRef, err = acquire(payload.MaskImage); err != nil {
		return fail("mask_image", err)
	}
	if structured.OverlayRef, err = acquire(payload.OverlayImage); err != nil {
		return fail("overlay_image", err)
	}

	return &types.Artifact{
		Kind:       types.ArtifactStructured,
		Structured: structured,
	}, nil
}

// Download persists the primary displayable image of the current result to
// dir as <variant>_prediction.<ext>, picking a numbered name when the file
// already exists. For structured artifacts the overlay image is the primary
// one; the rest stay viewable through the display endpoint.
func (m *Manager) Download(dir string) (string, error) {
	m.mu.Lock()
	result := m.result
	status := m.status
	variant := m.variant
	m.mu.Unlock()

	if status != types.StatusSucceeded || result == nil {
		return "", ErrNoDownloadableResult
	}

	var ref string
	switch result.Kind {
	case types.ArtifactImage:
		ref = result.Image.Ref
	case types.ArtifactStructured:
		ref = result.Structured.OverlayRef
	}
	blob, ok := m.store.Get(ref)
	if !ok {
		return "", ErrNoDownloadableResult
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download folder: %v", err)
	}
	fileName := fmt.Sprintf("%s_prediction%s", variant, tool.ExtensionForType(blob.ContentType))
	path := tool.NextAvailablePath(dir, fileName)
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", path, err)
	}

	tool.DefaultLogger.Infof("Exported prediction to %s", path)
	return filepath.Clean(path), nil
}
