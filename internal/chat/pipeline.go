// Package chat implements the conversational pipeline: history load,
// context retrieval, model call, and response persistence over a chat
// session.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/pipeline"
	"github.com/jmorgan/ikigai-copilot/internal/types"
	"github.com/jmorgan/ikigai-copilot/internal/vectorstore"
)

// Retrieval depth for knowledge-base context.
const contextTopK = 4

// Sentinels keep downstream prompting well-defined when retrieval or the
// profile store come back empty. They are values, not errors.
const (
	noContextSentinel = "No relevant context found in the knowledge base."
	noProfileSentinel = "No user profile found."
)

// State channels.
const (
	chUserID     = "userId"
	chSessionID  = "sessionId"
	chNewMessage = "newMessage"
	chHistory    = "history"
	chContext    = "context"
	chAIResponse = "aiResponse"
)

// SessionStore is the session collaborator contract used by the pipeline.
type SessionStore interface {
	AppendMessage(ctx context.Context, userID, sessionID string, msg types.ChatMessage) (string, error)
	ListMessages(ctx context.Context, userID, sessionID string) ([]types.ChatMessage, error)
}

// ProfileStore is the profile collaborator contract used by the pipeline.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

// Service wires the chat chain over its collaborators.
type Service struct {
	model    llm.Client
	index    vectorstore.Index
	sessions SessionStore
	profiles ProfileStore
	validate *validator.Validate
	chain    *pipeline.CompiledChain
}

// NewService builds and compiles the chat chain.
func NewService(model llm.Client, index vectorstore.Index, sessions SessionStore, profiles ProfileStore) (*Service, error) {
	s := &Service{
		model:    model,
		index:    index,
		sessions: sessions,
		profiles: profiles,
		validate: validator.New(),
	}

	chain := pipeline.New("chat").
		AddChannel(chUserID, "").
		AddChannel(chSessionID, "").
		AddChannel(chNewMessage, "").
		AddChannel(chHistory, []types.ChatMessage(nil)).
		AddChannel(chContext, "").
		AddChannel(chAIResponse, "").
		AddStep("load_history", s.loadHistory).
		AddStep("retrieve_context", s.retrieveContext).
		AddStep("call_model", s.callModel).
		AddStep("save_response", s.saveResponse).
		AddEdge(pipeline.Start, "load_history").
		AddEdge("load_history", "retrieve_context").
		AddEdge("retrieve_context", "call_model").
		AddEdge("call_model", "save_response").
		AddEdge("save_response", pipeline.End)

	compiled, err := chain.Compile()
	if err != nil {
		return nil, err
	}
	s.chain = compiled
	return s, nil
}

// HandleChatMessage persists the user's turn, runs the chain, and returns
// the AI reply. The user turn is written before the chain runs and is not
// rolled back if a later step fails. Re-invoking with the same input
// appends new turns; there is no deduplication.
func (s *Service) HandleChatMessage(ctx context.Context, userID, sessionID string, input types.ChatInput) (string, error) {
	if err := s.validate.Struct(input); err != nil {
		return "", err
	}

	userTurn := types.ChatMessage{Role: types.RoleUser, Content: input.Content}
	if _, err := s.sessions.AppendMessage(ctx, userID, sessionID, userTurn); err != nil {
		return "", fmt.Errorf("failed to persist user message: %w", err)
	}

	final, err := s.chain.Invoke(ctx, pipeline.State{
		chUserID:     userID,
		chSessionID:  sessionID,
		chNewMessage: input.Content,
	})
	if err != nil {
		return "", err
	}

	reply, _ := final[chAIResponse].(string)
	if reply == "" {
		return "", fmt.Errorf("chat pipeline produced no AI response")
	}
	return reply, nil
}

// loadHistory reads all prior messages for the session, oldest first. The
// just-persisted user turn is excluded from history because it is sent as
// the live turn of the prompt.
func (s *Service) loadHistory(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	userID := st[chUserID].(string)
	sessionID := st[chSessionID].(string)

	messages, err := s.sessions.ListMessages(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if n := len(messages); n > 0 && messages[n-1].Role == types.RoleUser {
		messages = messages[:n-1]
	}

	return pipeline.State{chHistory: messages}, nil
}

// retrieveContext embeds the new message and queries the knowledge base.
// An empty result is the sentinel, not an error.
func (s *Service) retrieveContext(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	content := st[chNewMessage].(string)

	hits, err := s.index.Query(ctx, content, contextTopK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}
	if len(hits) == 0 {
		return pipeline.State{chContext: noContextSentinel}, nil
	}

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return pipeline.State{chContext: strings.Join(texts, "\n\n---\n\n")}, nil
}

// callModel builds the system instruction from the caller's profile and
// retrieved context, then invokes the model over the full conversation.
func (s *Service) callModel(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	userID := st[chUserID].(string)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	profileContext := noProfileSentinel
	if profile != nil {
		profileContext = formatProfileContext(profile)
	}

	messages := []llm.Message{{
		Role:    llm.RoleSystem,
		Content: systemPrompt(profileContext, st[chContext].(string)),
	}}
	history, _ := st[chHistory].([]types.ChatMessage)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == types.RoleAI {
			role = llm.RoleAI
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: st[chNewMessage].(string)})

	reply, err := s.model.GenerateChat(ctx, messages, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	return pipeline.State{chAIResponse: reply}, nil
}

// saveResponse persists the AI turn. A missing response is fatal; an empty
// reply must never be stored.
func (s *Service) saveResponse(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	reply, _ := st[chAIResponse].(string)
	if reply == "" {
		return nil, fmt.Errorf("AI response is missing, cannot save")
	}

	userID := st[chUserID].(string)
	sessionID := st[chSessionID].(string)
	aiTurn := types.ChatMessage{Role: types.RoleAI, Content: reply}
	if _, err := s.sessions.AppendMessage(ctx, userID, sessionID, aiTurn); err != nil {
		return nil, fmt.Errorf("failed to persist AI message: %w", err)
	}
	return nil, nil
}
