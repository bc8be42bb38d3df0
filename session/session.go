// Package session owns the single upload session: file intake, variant
// choice, the single-flight predict dispatch, and result presentation.
// Status moves along Idle → Ready → Processing → {Succeeded|Failed}; a new
// file selection or reset re-arms it. Every preview/result blob handle is
// acquired and released through the store exactly once.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/store"
	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// Notifier receives session lifecycle events for the notify websocket.
// May be nil.
type Notifier func(*types.Notification)

// Manager is the one live upload session.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	client   inference.Client
	notifier Notifier

	status   types.Status
	fileName string
	fileType string
	fileData []byte
	preview  string // blob handle, "" when none
	variant  types.Variant
	lastErr  string
	result   *types.Artifact

	// gen identifies which selection an in-flight request belongs to.
	// SelectFile and Reset bump it and cancel the in-flight context, so a
	// late response can never overwrite state it no longer describes.
	gen      uint64
	inFlight context.CancelFunc
}

func NewManager(st *store.Store, client inference.Client) *Manager {
	return &Manager{
		store:   st,
		client:  client,
		status:  types.StatusIdle,
		variant: types.DefaultVariant,
	}
}

// SetNotifier installs the event sink. Call before serving requests.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
}

// Store exposes the blob store for the display/export endpoints.
func (m *Manager) Store() *store.Store {
	return m.store
}

// SelectFile validates and accepts a user-chosen file. A non-image content
// kind fails with ErrInvalidInputKind and mutates nothing. On success any
// prior preview and result handles are released, errors cleared, a new
// preview acquired, and the session becomes Ready.
func (m *Manager) SelectFile(name, contentType string, data []byte) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrInvalidInputKind
	}

	m.mu.Lock()
	m.invalidateInFlightLocked()
	m.releaseResultLocked()
	if m.preview != "" {
		m.store.Release(m.preview)
		m.preview = ""
	}

	m.fileName = name
	m.fileType = contentType
	m.fileData = data
	m.preview = m.store.Acquire(data, contentType)
	m.lastErr = ""
	m.status = types.StatusReady
	notifier := m.notifier
	m.mu.Unlock()

	tool.DefaultLogger.Infof("Selected file %s (%d bytes, %s)", name, len(data), contentType)
	emit(notifier, &types.Notification{
		Type:    types.NotifyTypeFileSelected,
		Title:   "File selected",
		Message: name,
		Data:    map[string]any{"fileName": name, "fileType": contentType, "size": len(data)},
	})
	return nil
}

// Reset releases all handles and returns the session to Idle. Safe to call
// when already Idle; nothing is released twice because handles are cleared
// as they are released.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.invalidateInFlightLocked()
	m.releaseResultLocked()
	if m.preview != "" {
		m.store.Release(m.preview)
		m.preview = ""
	}
	m.fileName = ""
	m.fileType = ""
	m.fileData = nil
	m.lastErr = ""
	m.variant = types.DefaultVariant
	m.status = types.StatusIdle
	notifier := m.notifier
	m.mu.Unlock()

	emit(notifier, &types.Notification{
		Type:  types.NotifyTypeSessionReset,
		Title: "Session reset",
	})
}

// SelectVariant updates the mutually-exclusive variant choice. Pure state
// update; fails only on unknown variants.
func (m *Manager) SelectVariant(s string) error {
	v, err := types.ParseVariant(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.variant = v
	m.mu.Unlock()
	return nil
}

// Process drives one submit/await/resolve cycle. It suspends the caller
// until the remote call resolves. While a request is in flight, further
// calls are silent no-ops (started=false, nil error): single-flight is
// enforced here, not by UI disablement. Triggering with no file selected
// returns ErrNoFileSelected and leaves the session Idle.
//
// A session whose file selection changed (or that was reset) while the
// request was in flight discards the response entirely: no blob is acquired
// and no field is touched for a stale generation.
func (m *Manager) Process(ctx context.Context) (bool, error) {
	m.mu.Lock()
	if m.status == types.StatusProcessing {
		m.mu.Unlock()
		tool.DefaultLogger.Debug("Process trigger ignored: request already in flight")
		return false, nil
	}
	if len(m.fileData) == 0 {
		m.mu.Unlock()
		return false, ErrNoFileSelected
	}

	// Re-arming from Succeeded/Failed keeps the selected file; the previous
	// result (if any) is released now so result != nil only while Succeeded.
	m.releaseResultLocked()
	m.lastErr = ""
	m.status = types.StatusProcessing

	reqCtx, cancel := context.WithCancel(ctx)
	m.inFlight = cancel
	gen := m.gen
	variant := m.variant
	fileName := m.fileName
	fileType := m.fileType
	fileData := m.fileData
	notifier := m.notifier
	m.mu.Unlock()

	emit(notifier, statusEvent(types.StatusProcessing, ""))

	resp, err := m.client.Predict(reqCtx, variant.Endpoint(), fileName, fileType, fileData)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// The user moved on while we were waiting; the response describes a
		// session that no longer exists.
		tool.DefaultLogger.Debugf("Discarding stale predict response (generation %d, now %d)", gen, m.gen)
		return true, nil
	}
	m.inFlight = nil

	if err != nil {
		m.failLocked(err.Error())
		return true, nil
	}

	artifact, err := classifyResponse(m.store, resp)
	if err != nil {
		m.failLocked(err.Error())
		return true, nil
	}

	m.result = artifact
	m.status = types.StatusSucceeded
	tool.DefaultLogger.Infof("Prediction succeeded for %s (%s artifact)", fileName, artifact.Kind)
	emit(m.notifier, statusEvent(types.StatusSucceeded, ""))
	return true, nil
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() types.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.SessionSnapshot{
		Status:      m.status,
		FileName:    m.fileName,
		FileType:    m.fileType,
		FileSize:    int64(len(m.fileData)),
		PreviewRef:  m.preview,
		Variant:     m.variant,
		Error:       m.lastErr,
		Result:      m.result,
		LiveHandles: m.store.Live(),
	}
}

// failLocked moves the session to Failed with a user-visible message.
// Caller holds m.mu.
func (m *Manager) failLocked(msg string) {
	m.lastErr = msg
	m.status = types.StatusFailed
	tool.DefaultLogger.Errorf("Prediction failed: %s", msg)
	emit(m.notifier, statusEvent(types.StatusFailed, msg))
}

// invalidateInFlightLocked bumps the generation and cancels any in-flight
// request so its eventual response is discarded. Caller holds m.mu.
func (m *Manager) invalidateInFlightLocked() {
	m.gen++
	if m.inFlight != nil {
		m.inFlight()
		m.inFlight = nil
	}
	if m.status == types.StatusProcessing {
		m.status = types.StatusIdle
	}
}

// releaseResultLocked frees all handles owned by the current result and
// clears it. Caller holds m.mu.
func (m *Manager) releaseResultLocked() {
	for _, ref := range m.result.Refs() {
		m.store.Release(ref)
	}
	m.result = nil
}

func statusEvent(status types.Status, errMsg string) *types.Notification {
	n := &types.Notification{
		Type:    types.NotifyTypeStatusChanged,
		Title:   "Session status",
		Message: string(status),
		Data:    map[string]any{"status": string(status)},
	}
	if errMsg != "" {
		n.Data["error"] = errMsg
	}
	return n
}

func emit(n Notifier, event *types.Notification) {
	if n != nil {
		n(event)
	}
}
