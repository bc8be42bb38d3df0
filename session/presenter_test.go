package session

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/types"
)

func TestDownloadWithoutResultIsRejected(t *testing.T) {
	m, _ := newTestManager(&fakeClient{resp: pngResponse()})

	if _, err := m.Download(t.TempDir()); !errors.Is(err, ErrNoDownloadableResult) {
		t.Fatalf("expected ErrNoDownloadableResult, got %v", err)
	}

	// Ready but not yet processed is still not downloadable.
	if err := m.SelectFile("photo.jpg", "image/jpeg", []byte("jpeg-data")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if _, err := m.Download(t.TempDir()); !errors.Is(err, ErrNoDownloadableResult) {
		t.Fatalf("expected ErrNoDownloadableResult while Ready, got %v", err)
	}
}

func TestDownloadImageResult(t *testing.T) {
	m, _ := newTestManager(&fakeClient{resp: pngResponse()})
	dir := t.TempDir()

	if err := m.SelectFile("photo.jpg", "image/jpeg", []byte("jpeg-data")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if _, err := m.Process(context.Background()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	path, err := m.Download(dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "unet_prediction.png" {
		t.Errorf("unexpected export name %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("exported bytes do not match the result blob")
	}

	// A second export of the same result must not clobber the first.
	path2, err := m.Download(dir)
	if err != nil {
		t.Fatalf("second Download: %v", err)
	}
	if filepath.Base(path2) != "unet_prediction-2.png" {
		t.Errorf("expected numbered name on collision, got %q", filepath.Base(path2))
	}
}

func TestDownloadStructuredResultExportsOverlay(t *testing.T) {
	body, err := sonic.Marshal(map[string]any{
		"mask_image":    base64.StdEncoding.EncodeToString([]byte("mask-bytes")),
		"overlay_image": base64.StdEncoding.EncodeToString([]byte("overlay-bytes")),
		"confidence":    0.93,
		"affected_area": 12.5,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	client := &fakeClient{resp: &inference.PredictResponse{ContentType: "application/json", Body: body}}
	m, _ := newTestManager(client)
	dir := t.TempDir()

	if err := m.SelectFile("photo.jpg", "image/jpeg", []byte("jpeg-data")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if err := m.SelectVariant("aerial"); err != nil {
		t.Fatalf("SelectVariant: %v", err)
	}
	if _, err := m.Process(context.Background()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	snap := m.Snapshot()
	if snap.Result == nil || snap.Result.Kind != types.ArtifactStructured {
		t.Fatalf("expected structured result, got %+v (error %q)", snap.Result, snap.Error)
	}
	if snap.Result.Structured.Confidence != 0.93 || snap.Result.Structured.AffectedArea != 12.5 {
		t.Errorf("metrics not carried through: %+v", snap.Result.Structured)
	}

	path, err := m.Download(dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "aerial_prediction.png" {
		t.Errorf("unexpected export name %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "overlay-bytes" {
		t.Errorf("structured export should be the overlay image, got %q", data)
	}
}

func TestClassifyResponseStripsCharsetParameter(t *testing.T) {
	_, st := newTestManager(&fakeClient{})

	artifact, err := classifyResponse(st, &inference.PredictResponse{
		ContentType: "image/png; charset=binary",
		Body:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("classifyResponse: %v", err)
	}
	if artifact.Kind != types.ArtifactImage || artifact.Image.ContentType != "image/png" {
		t.Errorf("content-type parameters should be stripped, got %+v", artifact.Image)
	}
}

func TestClassifyStructuredBadBase64ReleasesAcquired(t *testing.T) {
	_, st := newTestManager(&fakeClient{})

	body, err := sonic.Marshal(map[string]string{
		"mask_image":    base64.StdEncoding.EncodeToString([]byte("mask-bytes")),
		"overlay_image": "%%% not base64 %%%",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := classifyResponse(st, &inference.PredictResponse{ContentType: "application/json", Body: body}); !errors.Is(err, ErrUnrecognizedResultFormat) {
		t.Fatalf("expected ErrUnrecognizedResultFormat, got %v", err)
	}
	if st.Live() != 0 {
		t.Errorf("partially-built artifact leaked %d handles", st.Live())
	}
}
