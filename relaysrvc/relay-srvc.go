package relaysrvc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/submit-bridge/backend/logger"
)

// RelaySrvc accepts submissions, fans them out to connected peers and
// correlates the asynchronous submission reports back to the request ids.
type RelaySrvc struct {
	registry *PeerRegistry
	pending  *PendingTable

	defaultLang string
}

type Options struct {
	DefaultLanguage string

	// ResolvedRetention is how long a resolved result stays queryable
	// after resolution so that late polls still observe it.
	ResolvedRetention time.Duration
	// MaxPendingAge evicts unresolved entries older than this; zero
	// keeps them forever, matching the observed bridge behavior.
	MaxPendingAge time.Duration
	SweepInterval time.Duration
}

func NewRelaySrvc(opts Options) *RelaySrvc {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "C++26"
	}
	if opts.ResolvedRetention <= 0 {
		opts.ResolvedRetention = 2 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 30 * time.Second
	}

	pending := NewPendingTable(opts.ResolvedRetention, opts.MaxPendingAge)
	go pending.sweepLoop(context.Background(), opts.SweepInterval)

	return &RelaySrvc{
		registry:    NewPeerRegistry(),
		pending:     pending,
		defaultLang: opts.DefaultLanguage,
	}
}

func (s *RelaySrvc) Registry() *PeerRegistry {
	return s.registry
}

type SubmitParams struct {
	ProblemCode string
	Language    string // empty means the configured default
	Code        string
}

type SubmitReceipt struct {
	RequestID string
	SentTo    int // peers the broadcast was attempted against
}

// submitMsg is the wire format pushed to every connected peer.
type submitMsg struct {
	ProblemCode string `json:"problemCode"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Timestamp   string `json:"timestamp"`
	RequestID   string `json:"requestId"`
}

// Submit registers a pending entry for a fresh request id and broadcasts
// the submission to all connected peers. It returns immediately; result
// availability is decoupled from submission acceptance. The entry is
// registered before the broadcast so a report can never observe an
// unregistered id.
func (s *RelaySrvc) Submit(ctx context.Context, params SubmitParams) (SubmitReceipt, error) {
	if params.ProblemCode == "" {
		return SubmitReceipt{}, ErrEmptyProblemCode()
	}
	lang := params.Language
	if lang == "" {
		lang = s.defaultLang
	}

	requestID, err := newRequestID()
	if err != nil {
		return SubmitReceipt{}, ErrInternal().SetDebug(err)
	}

	log := logger.FromContext(ctx)
	log.Info("relaying submission",
		"problem_code", params.ProblemCode,
		"language", lang,
		"request_id", requestID,
		"code_bytes", len(params.Code))
	// operator echo of the received source, as the bridge always did
	fmt.Printf("code:\n%s\n", params.Code)

	msg, err := json.Marshal(submitMsg{
		ProblemCode: params.ProblemCode,
		Language:    lang,
		Code:        params.Code,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		RequestID:   requestID,
	})
	if err != nil {
		return SubmitReceipt{}, ErrInternal().SetDebug(err)
	}

	if err := s.pending.Register(requestID); err != nil {
		return SubmitReceipt{}, err
	}
	sentTo := s.registry.Broadcast(msg)

	return SubmitReceipt{RequestID: requestID, SentTo: sentTo}, nil
}

// Report resolves the pending entry for the request id. Unknown or already
// resolved ids are accepted silently; the reporting callback is best-effort
// and must never be answered with an error.
func (s *RelaySrvc) Report(ctx context.Context, requestID string, res Result) {
	logger.FromContext(ctx).Info("submission report received",
		"request_id", requestID, "sid", res.SubmID)
	s.pending.Resolve(requestID, res)
}

// AwaitResult blocks until the entry for the request id resolves or the
// timeout elapses.
func (s *RelaySrvc) AwaitResult(ctx context.Context, requestID string, timeout time.Duration) (Result, AwaitOutcome) {
	return s.pending.Await(ctx, requestID, timeout)
}

// newRequestID returns 32 random bytes as lowercase hex (64 chars).
func newRequestID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
