// Package consultation orchestrates the simulated history-taking encounter:
// it owns the session lifecycle, the transcript rules and the side prompts
// for hints, examinations and feedback.
package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/core/llm"
	"github.com/oscesim/consult-service/internal/domain/errors"
	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/observability/metrics"
	"github.com/oscesim/consult-service/internal/scenario"
	"github.com/oscesim/consult-service/internal/services/session"
)

// Default tuning constants. These are arbitrary tuning values carried over
// from the product, kept configurable rather than hard-coded.
const (
	DefaultReinforcementInterval = 3
	DefaultMinExamUserMessages   = 2
	DefaultExamContextMessages   = 3
)

// PostMessageResult reports what was stored for a posted message.
type PostMessageResult struct {
	Stored    string `json:"stored"`
	Sanitized bool   `json:"sanitized"`
}

// Service is the consultation controller: the set of operations that mutate
// one user's consultation session. Remote failures never propagate as errors;
// they become visible placeholder text stored where the reply would have
// gone. Only precondition violations reject.
type Service interface {
	// Start begins a new encounter, discarding any previous one.
	Start(ctx context.Context, userID string, cfg models.ScenarioConfig) (*models.ConsultationSession, error)

	// Current returns the user's in-progress session.
	Current(ctx context.Context, userID string) (*models.ConsultationSession, error)

	// PostMessage sanitizes and appends a user message, invalidating the
	// hint and exam artifacts.
	PostMessage(ctx context.Context, userID, text string) (*PostMessageResult, error)

	// RequestReply generates the patient's next message.
	RequestReply(ctx context.Context, userID string) (string, error)

	// RequestHint generates a suggested next question, overwriting any
	// previous hint.
	RequestHint(ctx context.Context, userID string) (string, error)

	// RequestExam generates a physical examination readout for the given
	// complaint.
	RequestExam(ctx context.Context, userID, complaint string) (string, error)

	// RequestFeedback generates the rubric-scored evaluation, once per
	// encounter.
	RequestFeedback(ctx context.Context, userID string) (*models.Feedback, error)

	// Clear discards the derived artifacts and re-seeds a placeholder
	// scenario, keeping the previously chosen persona when available.
	Clear(ctx context.Context, userID string) (*models.ConsultationSession, error)
}

// Options tunes the controller's behaviour.
type Options struct {
	ReinforcementInterval int
	MinExamUserMessages   int
	MinMessageLength      int
	ExamContextMessages   int
	ClarificationPrompt   string
}

// Config holds the dependencies for the consultation service.
type Config struct {
	Store     session.Store
	LLM       llm.Client
	Generator *scenario.Generator
	// Encounters is the archive for completed consultations. Optional: when
	// nil, finished encounters are not persisted.
	Encounters docdb.EncountersCollection
	Metrics    *metrics.ConsultMetrics
	Logger     zerolog.Logger
	Options    Options
}

type service struct {
	store      session.Store
	llm        llm.Client
	generator  *scenario.Generator
	encounters docdb.EncountersCollection
	metrics    *metrics.ConsultMetrics
	logger     zerolog.Logger
	sanitizer  *Sanitizer
	opts       Options
}

// NewService creates the consultation controller.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}

	opts := cfg.Options
	if opts.ReinforcementInterval <= 0 {
		opts.ReinforcementInterval = DefaultReinforcementInterval
	}
	if opts.MinExamUserMessages <= 0 {
		opts.MinExamUserMessages = DefaultMinExamUserMessages
	}
	if opts.ExamContextMessages <= 0 {
		opts.ExamContextMessages = DefaultExamContextMessages
	}

	gen := cfg.Generator
	if gen == nil {
		gen = scenario.NewGenerator(nil, nil)
	}

	return &service{
		store:      cfg.Store,
		llm:        cfg.LLM,
		generator:  gen,
		encounters: cfg.Encounters,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		sanitizer:  NewSanitizer(opts.MinMessageLength, opts.ClarificationPrompt),
		opts:       opts,
	}, nil
}

// Start begins a new encounter. The generated scenario seeds the transcript
// with its system message, and the patient's opening line is produced by one
// generation call. A failed call degrades to its error text as the opening
// message; the encounter still starts.
func (s *service) Start(ctx context.Context, userID string, cfg models.ScenarioConfig) (*models.ConsultationSession, error) {
	sc := s.generator.Generate(cfg)

	sess := models.NewConsultationSession(userID)
	sess.Scenario = sc
	sess.Transcript = models.Transcript{models.NewSystemMessage(sc.Instruction)}

	reply := s.complete(ctx, "start", sess, sess.Transcript)
	sess.AppendAssistant(reply)

	if err := s.store.Save(ctx, sess); err != nil {
		s.observe("start", "error")
		return nil, errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("start", "ok")
	return sess, nil
}

// Current returns the user's session or a not-found error.
func (s *service) Current(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.NewNotFoundError("consultation session", userID)
	}
	return sess, nil
}

// PostMessage appends a sanitized user message and invalidates the hint and
// exam artifacts. Empty input is rejected with the transcript unchanged.
func (s *service) PostMessage(ctx context.Context, userID, text string) (*PostMessageResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("no message provided", "")
	}

	sess, err := s.require(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, sanitized := s.sanitizer.Sanitize(text)
	if sanitized {
		s.metrics.ObserveSanitizedInput()
	}

	sess.AppendUser(stored)
	sess.InvalidateTurnArtifacts()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("post_message", "ok")
	return &PostMessageResult{Stored: stored, Sanitized: sanitized}, nil
}

// RequestReply generates the patient's next message from the full transcript,
// injecting the stay-in-character reinforcement every few user turns.
func (s *service) RequestReply(ctx context.Context, userID string) (string, error) {
	sess, err := s.require(ctx, userID)
	if err != nil {
		return "", err
	}

	s.injectReinforcement(sess)

	reply := s.complete(ctx, "reply", sess, sess.Transcript)
	sess.AppendAssistant(reply)

	if err := s.store.Save(ctx, sess); err != nil {
		return "", errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("reply", "ok")
	return reply, nil
}

// RequestHint generates one suggested next question from the dialogue so far,
// overwriting any previous hint.
func (s *service) RequestHint(ctx context.Context, userID string) (string, error) {
	sess, err := s.require(ctx, userID)
	if err != nil {
		return "", err
	}

	side := models.Transcript{
		models.NewSystemMessage(hintInstruction + "\n" + sess.Transcript.Dialogue()),
	}
	sess.Hint = s.complete(ctx, "hint", sess, side)

	if err := s.store.Save(ctx, sess); err != nil {
		return "", errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("hint", "ok")
	return sess.Hint, nil
}

// RequestExam generates an objective examination readout grounded in the most
// recent user messages. The text-generation client is never called when the
// preconditions fail.
func (s *service) RequestExam(ctx context.Context, userID, complaint string) (string, error) {
	if strings.TrimSpace(complaint) == "" {
		return "", errors.NewValidationError("no presenting complaint provided", "")
	}

	sess, err := s.require(ctx, userID)
	if err != nil {
		return "", err
	}

	count := sess.Transcript.UserMessageCount()
	if count < s.opts.MinExamUserMessages {
		s.observe("exam", "rejected")
		return "", errors.NewPreconditionError(
			"not enough history has been taken for an examination",
			fmt.Sprintf("at least %d user messages are required, the consultation has %d", s.opts.MinExamUserMessages, count),
		)
	}

	bodySystem := ""
	if sess.Scenario != nil {
		bodySystem = sess.Scenario.BodySystem
	}

	var b strings.Builder
	b.WriteString(examBaseInstruction)
	b.WriteString(" ")
	b.WriteString(vitalsClause)
	b.WriteString(" ")
	b.WriteString(s.generator.Catalog().ExamClause(bodySystem))
	fmt.Fprintf(&b, " The findings must be consistent with the presenting complaint: %s.", complaint)
	b.WriteString("\nRecent questions from the user:")
	for _, content := range sess.Transcript.LastUserContents(s.opts.ExamContextMessages) {
		b.WriteString("\n- ")
		b.WriteString(content)
	}

	side := models.Transcript{models.NewSystemMessage(b.String())}
	sess.ExamFindings = s.complete(ctx, "exam", sess, side)

	if err := s.store.Save(ctx, sess); err != nil {
		return "", errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("exam", "ok")
	return sess.ExamFindings, nil
}

// RequestFeedback generates the rubric-scored evaluation from the user's side
// of the dialogue. Feedback is write-once per encounter: once a structured
// result has been stored, further requests are rejected. A reply that fails
// to parse is kept as raw text and leaves the guard unset so the trainee can
// try again.
func (s *service) RequestFeedback(ctx context.Context, userID string) (*models.Feedback, error) {
	sess, err := s.require(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sess.FeedbackGiven {
		s.observe("feedback", "rejected")
		return nil, errors.NewPreconditionError("feedback has already been generated for this consultation", "")
	}

	side := models.Transcript{
		models.NewSystemMessage(feedbackInstruction + "\n" + sess.Transcript.UserDialogue()),
	}

	fb := &models.Feedback{GeneratedAt: time.Now().UTC()}
	start := time.Now()
	completion, err := s.llm.Complete(ctx, side)
	s.metrics.ObserveLLMLatency("feedback", time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", "feedback").Msg("text generation failed")
		fb.Raw = feedbackErrorPrefix + err.Error()
		sess.Feedback = fb
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, errors.NewInternalError("failed to save consultation session", err)
		}
		s.observe("feedback", "degraded")
		return fb, nil
	}

	sess.TokensInput += completion.TokensInput
	sess.TokensOutput += completion.TokensOutput
	fb.Raw = completion.Content

	result, parseErr := models.ParseFeedbackResult(completion.Content)
	if parseErr != nil {
		s.logger.Warn().Err(parseErr).Msg("feedback output did not match the rubric shape, keeping raw text")
		sess.Feedback = fb
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, errors.NewInternalError("failed to save consultation session", err)
		}
		s.observe("feedback", "unparsed")
		return fb, nil
	}

	fb.Result = result
	sess.Feedback = fb
	sess.FeedbackGiven = true

	s.archive(ctx, sess)

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("feedback", "ok")
	return fb, nil
}

// Clear discards the derived artifacts and re-seeds a placeholder transcript,
// reusing the previous persona when one exists. No generation call is made;
// the patient speaks again on the next reply request.
func (s *service) Clear(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = models.NewConsultationSession(userID)
	}

	sess.ResetArtifacts()
	sess.TokensInput = 0
	sess.TokensOutput = 0

	if sess.Scenario != nil {
		cfg := models.ScenarioConfig{
			ProblemComplexity: sess.Scenario.ProblemComplexity,
			PatientComplexity: sess.Scenario.PatientComplexity,
			ComorbidityMode:   sess.Scenario.ComorbidityMode,
			BodySystem:        sess.Scenario.BodySystem,
			Nomenclature:      sess.Scenario.Nomenclature,
		}
		sess.Scenario = s.generator.Regenerate(cfg, sess.Scenario.Persona)
		sess.Transcript = models.Transcript{models.NewSystemMessage(sess.Scenario.Instruction)}
	} else {
		sess.Transcript = nil
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.NewInternalError("failed to save consultation session", err)
	}

	s.observe("clear", "ok")
	return sess, nil
}

// injectReinforcement inserts the stay-in-character system message when the
// user-message count divides the configured interval and the marker is not
// already present. The message lands right after the scenario system message
// so later context cannot bury it.
func (s *service) injectReinforcement(sess *models.ConsultationSession) {
	count := sess.Transcript.UserMessageCount()
	if count == 0 || count%s.opts.ReinforcementInterval != 0 {
		return
	}
	if sess.Transcript.ContainsMarker(ReinforcementMarker) {
		return
	}

	pos := 0
	if len(sess.Transcript) > 0 && sess.Transcript[0].Role == models.RoleSystem {
		pos = 1
	}

	t := sess.Transcript
	t = append(t, models.Message{})
	copy(t[pos+1:], t[pos:])
	t[pos] = models.NewSystemMessage(reinforcementMessage)
	sess.Transcript = t
}

// complete wraps a generation call: latency and token accounting on success,
// the placeholder error text on failure. The caller stores the returned text
// wherever the reply belongs.
func (s *service) complete(ctx context.Context, operation string, sess *models.ConsultationSession, transcript models.Transcript) string {
	start := time.Now()
	completion, err := s.llm.Complete(ctx, transcript)
	s.metrics.ObserveLLMLatency(operation, time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("text generation failed")
		s.observe(operation, "degraded")
		return apiErrorPrefix + err.Error()
	}

	sess.TokensInput += completion.TokensInput
	sess.TokensOutput += completion.TokensOutput
	return completion.Content
}

// archive persists the finished encounter. Best effort: a failed archive is
// logged, never surfaced, and does not undo the feedback.
func (s *service) archive(ctx context.Context, sess *models.ConsultationSession) {
	if s.encounters == nil {
		return
	}

	encounter := &models.Encounter{
		ID:           uuid.NewString(),
		UserID:       sess.UserID,
		Scenario:     sess.Scenario,
		Transcript:   sess.Transcript,
		Feedback:     sess.Feedback,
		TokensInput:  sess.TokensInput,
		TokensOutput: sess.TokensOutput,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.encounters.Insert(ctx, encounter); err != nil {
		s.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to archive encounter")
	}
}

// load fetches the session without requiring it to exist.
func (s *service) load(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	sess, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load consultation session", err)
	}
	return sess, nil
}

// require fetches the session and rejects when there is no transcript to act
// on.
func (s *service) require(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil || len(sess.Transcript) == 0 {
		return nil, errors.NewPreconditionError("no consultation in progress", "start a simulation first")
	}
	return sess, nil
}

func (s *service) observe(operation, outcome string) {
	s.metrics.ObserveOperation(operation, outcome)
}
