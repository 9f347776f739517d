package consultation_test

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/core/llm"
	domainerrors "github.com/oscesim/consult-service/internal/domain/errors"
	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/mocks"
	"github.com/oscesim/consult-service/internal/scenario"
	"github.com/oscesim/consult-service/internal/services/consultation"
)

// memStore is an in-memory session store for exercising multi-step flows.
type memStore struct {
	sessions map[string]*models.ConsultationSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.ConsultationSession)}
}

func (s *memStore) Get(_ context.Context, userID string) (*models.ConsultationSession, error) {
	return s.sessions[userID], nil
}

func (s *memStore) Save(_ context.Context, session *models.ConsultationSession) error {
	s.sessions[session.UserID] = session
	return nil
}

func (s *memStore) Delete(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}

func (s *memStore) BuildCacheKey(userID string) string {
	return "consult:" + userID
}

func completion(content string) *llm.Completion {
	return &llm.Completion{Content: content, Model: "test", TokensInput: 10, TokensOutput: 5}
}

func newService(t *testing.T, store *memStore, llmClient *mocks.MockLLMClient) consultation.Service {
	t.Helper()

	svc, err := consultation.NewService(&consultation.Config{
		Store:     store,
		LLM:       llmClient,
		Generator: scenario.NewGenerator(nil, rand.New(rand.NewSource(42))),
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func validFeedbackJSON() string {
	categories := []string{
		"initiating_session",
		"gathering_information",
		"physical_examination",
		"explanation_planning",
		"closing_session",
		"building_relationship",
		"providing_structure",
	}
	var b strings.Builder
	b.WriteString("{")
	for _, c := range categories {
		fmt.Fprintf(&b, "%q: {\"score\": 7, \"comment\": \"solid\"},", c)
	}
	b.WriteString("\"overall\": 49, \"clinical_reasoning\": \"systematic\"}")
	return b.String()
}

func TestStart_SeedsTranscriptAndOpensWithReply(t *testing.T) {
	// Arrange
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Can I speak with someone about my symptoms?"), nil)
	svc := newService(t, store, llmClient)

	// Act
	sess, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{BodySystem: "respiratory"})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, sess.Scenario)
	require.Len(t, sess.Transcript, 2)
	assert.Equal(t, models.RoleSystem, sess.Transcript[0].Role)
	assert.Equal(t, sess.Scenario.Instruction, sess.Transcript[0].Content)
	assert.Equal(t, models.RoleAssistant, sess.Transcript[1].Role)
	assert.Len(t, sess.Transcript.Visible(), 1)
	assert.Equal(t, 15, sess.TokensInput+sess.TokensOutput)
}

func TestStart_LLMFailureDegradesToPlaceholder(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("rate limited"))
	svc := newService(t, store, llmClient)

	sess, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})

	require.NoError(t, err)
	require.Len(t, sess.Transcript, 2)
	assert.Equal(t, "Error with API: rate limited", sess.Transcript[1].Content)
}

func TestPostMessage_AppendsAndInvalidatesArtifacts(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)

	// Seed stale artifacts to prove they are invalidated.
	store.sessions["user-1"].Hint = "old hint"
	store.sessions["user-1"].ExamFindings = "old findings"

	result, err := svc.PostMessage(context.Background(), "user-1", "When did the pain start?")

	require.NoError(t, err)
	assert.False(t, result.Sanitized)
	assert.Equal(t, "When did the pain start?", result.Stored)

	sess := store.sessions["user-1"]
	assert.Empty(t, sess.Hint)
	assert.Empty(t, sess.ExamFindings)
	assert.Equal(t, 1, sess.Transcript.UserMessageCount())
}

func TestPostMessage_SanitizesDegenerateInput(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)

	result, err := svc.PostMessage(context.Background(), "user-1", "???")

	require.NoError(t, err)
	assert.True(t, result.Sanitized)
	assert.Equal(t, consultation.DefaultClarificationPrompt, result.Stored)
	assert.Equal(t, consultation.DefaultClarificationPrompt, store.sessions["user-1"].Transcript[2].Content)
}

func TestPostMessage_EmptyInputRejected(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	before := len(store.sessions["user-1"].Transcript)

	_, err = svc.PostMessage(context.Background(), "user-1", "   ")

	require.Error(t, err)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeValidation, domainErr.Code)
	assert.Len(t, store.sessions["user-1"].Transcript, before)
}

func TestPostMessage_NoSessionRejected(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, &mocks.MockLLMClient{})

	_, err := svc.PostMessage(context.Background(), "ghost", "Hello there, how are you feeling?")

	require.Error(t, err)
	assert.True(t, domainerrors.IsPrecondition(err))
}

func TestRequestReply_InjectsReinforcementOnce(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("I see."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)

	ask := func(text string) {
		_, err := svc.PostMessage(context.Background(), "user-1", text)
		require.NoError(t, err)
		_, err = svc.RequestReply(context.Background(), "user-1")
		require.NoError(t, err)
	}

	ask("What brings you in today, can you describe the symptoms?")
	ask("How long has this been going on?")
	assert.False(t, store.sessions["user-1"].Transcript.ContainsMarker(consultation.ReinforcementMarker))

	// Third user message triggers the injection, placed right after the
	// scenario system message.
	ask("Does anything make it better or worse?")
	sess := store.sessions["user-1"]
	assert.True(t, sess.Transcript.ContainsMarker(consultation.ReinforcementMarker))
	assert.Equal(t, models.RoleSystem, sess.Transcript[1].Role)
	assert.Contains(t, sess.Transcript[1].Content, consultation.ReinforcementMarker)

	// Three more turns reach the next multiple without a second injection.
	ask("Any fevers or night sweats?")
	ask("Are you taking any medication at the moment?")
	ask("Is there any family history of illness I should know about?")

	count := 0
	for _, msg := range store.sessions["user-1"].Transcript {
		if strings.Contains(msg.Content, consultation.ReinforcementMarker) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRequestHint_UsesSidePromptAndStoresResult(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}

	var captured models.Transcript
	llmClient.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(models.Transcript)
		}).
		Return(completion("- Ask for the patient's name and date of birth."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Hello, what seems to be the trouble?")
	require.NoError(t, err)

	hint, err := svc.RequestHint(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "- Ask for the patient's name and date of birth.", hint)
	assert.Equal(t, hint, store.sessions["user-1"].Hint)

	// The side prompt is a single system message rendering the dialogue, not
	// the raw transcript.
	require.Len(t, captured, 1)
	assert.Equal(t, models.RoleSystem, captured[0].Role)
	assert.Contains(t, captured[0].Content, "Calgary Cambridge")
	assert.Contains(t, captured[0].Content, "User: Hello, what seems to be the trouble?")
	assert.NotContains(t, captured[0].Content, store.sessions["user-1"].Scenario.Instruction)
}

func TestRequestExam_RejectsWithoutEnoughHistory(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Where exactly does it hurt?")
	require.NoError(t, err)

	calls := len(llmClient.Calls)

	_, err = svc.RequestExam(context.Background(), "user-1", "chest pain")

	require.Error(t, err)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodePrecondition, domainErr.Code)
	assert.Contains(t, domainErr.Details, "has 1")
	// The rejection happens before any generation call.
	assert.Len(t, llmClient.Calls, calls)
}

func TestRequestExam_RequiresComplaint(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, &mocks.MockLLMClient{})

	_, err := svc.RequestExam(context.Background(), "user-1", "  ")

	require.Error(t, err)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeValidation, domainErr.Code)
}

func TestRequestExam_GroundsPromptInRecentMessages(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}

	var captured models.Transcript
	llmClient.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(models.Transcript)
		}).
		Return(completion("Temperature 37.1, HR 88, BP 132/84."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{BodySystem: "cardiovascular"})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Tell me about the chest pain.")
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Does it spread to your arm or jaw?")
	require.NoError(t, err)

	findings, err := svc.RequestExam(context.Background(), "user-1", "chest pain")

	require.NoError(t, err)
	assert.Equal(t, "Temperature 37.1, HR 88, BP 132/84.", findings)
	assert.Equal(t, findings, store.sessions["user-1"].ExamFindings)

	require.Len(t, captured, 1)
	assert.Contains(t, captured[0].Content, "vital signs")
	assert.Contains(t, captured[0].Content, "chest pain")
	assert.Contains(t, captured[0].Content, "Does it spread to your arm or jaw?")
	assert.Contains(t, captured[0].Content, "murmurs")
}

func TestRequestFeedback_ParsesAndBecomesWriteOnce(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion(validFeedbackJSON()), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Thank you for coming in today.")
	require.NoError(t, err)

	fb, err := svc.RequestFeedback(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, fb.Result)
	assert.Equal(t, 49, fb.Result.Overall)
	assert.Equal(t, 7, fb.Result.GatheringInformation.Score)
	assert.True(t, store.sessions["user-1"].FeedbackGiven)

	// Second request is rejected without touching the stored feedback.
	_, err = svc.RequestFeedback(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, domainerrors.IsPrecondition(err))
}

func TestRequestFeedback_ArchivesEncounter(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion(validFeedbackJSON()), nil)

	encounters := &mocks.MockEncountersCollection{}
	encounters.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.Encounter) bool {
		return e.UserID == "user-1" && e.ID != "" && e.Feedback != nil
	})).Return(nil)

	svc, err := consultation.NewService(&consultation.Config{
		Store:      store,
		LLM:        llmClient,
		Generator:  scenario.NewGenerator(nil, rand.New(rand.NewSource(7))),
		Encounters: encounters,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Thanks for your time today.")
	require.NoError(t, err)

	_, err = svc.RequestFeedback(context.Background(), "user-1")

	require.NoError(t, err)
	encounters.AssertExpectations(t)
}

func TestRequestFeedback_UnparsableKeepsRawAndAllowsRetry(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("I think you did quite well overall."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "Thanks, that's everything from me.")
	require.NoError(t, err)

	fb, err := svc.RequestFeedback(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, fb.Result)
	assert.Equal(t, "I think you did quite well overall.", fb.Raw)
	assert.False(t, store.sessions["user-1"].FeedbackGiven)

	// A retry is permitted because no structured result was stored.
	_, err = svc.RequestFeedback(context.Background(), "user-1")
	require.NoError(t, err)
}

func TestRequestFeedback_LLMFailureDegradesToPlaceholder(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil).Once()
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("timeout"))
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), "user-1", "That covers everything, thank you.")
	require.NoError(t, err)

	fb, err := svc.RequestFeedback(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, fb.Result)
	assert.Equal(t, "Error generating feedback: timeout", fb.Raw)
	assert.False(t, store.sessions["user-1"].FeedbackGiven)
}

func TestClear_ResetsArtifactsAndKeepsPersona(t *testing.T) {
	store := newMemStore()
	llmClient := &mocks.MockLLMClient{}
	llmClient.On("Complete", mock.Anything, mock.Anything).Return(completion("Hello."), nil)
	svc := newService(t, store, llmClient)

	_, err := svc.Start(context.Background(), "user-1", models.ScenarioConfig{BodySystem: "respiratory"})
	require.NoError(t, err)
	persona := store.sessions["user-1"].Scenario.Persona

	_, err = svc.PostMessage(context.Background(), "user-1", "Hello, can you tell me what's wrong?")
	require.NoError(t, err)
	store.sessions["user-1"].Hint = "a hint"
	store.sessions["user-1"].ExamFindings = "findings"

	calls := len(llmClient.Calls)

	sess, err := svc.Clear(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, persona, sess.Scenario.Persona)
	assert.Empty(t, sess.Hint)
	assert.Empty(t, sess.ExamFindings)
	assert.Nil(t, sess.Feedback)
	assert.False(t, sess.FeedbackGiven)
	assert.Zero(t, sess.TokensInput)
	assert.Zero(t, sess.TokensOutput)

	// The transcript is re-seeded with the scenario message only; no
	// generation call is made.
	require.Len(t, sess.Transcript, 1)
	assert.Equal(t, models.RoleSystem, sess.Transcript[0].Role)
	assert.Len(t, llmClient.Calls, calls)
}

func TestCurrent_NotFound(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, &mocks.MockLLMClient{})

	_, err := svc.Current(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, domainerrors.IsNotFound(err))
}
