package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"healthchain/internal/config"
	"healthchain/internal/domain"
	llmModels "healthchain/internal/domain/models/llm"
	llmServices "healthchain/internal/domain/services/llm"
	"healthchain/internal/service/conversation"
	"healthchain/internal/service/finalize"
	"healthchain/internal/service/llm/agent"
	"healthchain/internal/service/rag"
)

// greetingKeywords mark casual openers that get a short conversational
// reply instead of the structured medical prompt.
var greetingKeywords = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"how are you", "whats up", "what's up", "greetings", "namaste",
	"thanks", "thank you", "bye", "goodbye", "see you", "ok", "okay",
	"cool", "nice", "great", "awesome", "perfect",
}

// detailKeywords signal the user wants a longer, in-depth answer.
var detailKeywords = []string{
	"explain", "detail", "elaborate", "tell me more", "in depth", "long",
	"why", "how does",
}

// Request is a chat turn from the patient.
type Request struct {
	Message    string `json:"message"`
	UserID     string `json:"user_id,omitempty"`
	Language   string `json:"language,omitempty"`
	UseVoice   bool   `json:"use_voice,omitempty"`
	UseRecords bool   `json:"use_records,omitempty"`
}

// Validate implements input validation for chat requests.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(1, config.MaxChatMessageLength)),
		validation.Field(&r.Language, validation.In("", "en", "hi", "mr")),
	)
}

// Response is always well-formed: even on failure the patient gets a
// speakable reply in Response, with the underlying cause in Error.
type Response struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	AudioData string `json:"audio_data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Service answers general health questions, augmented with the patient's
// extracted records when available.
type Service struct {
	provider  llmServices.Provider
	rag       *rag.Service
	history   *conversation.Store
	finalizer *finalize.Finalizer
	model     string
	logger    *slog.Logger
}

func NewService(
	provider llmServices.Provider,
	ragService *rag.Service,
	history *conversation.Store,
	finalizer *finalize.Finalizer,
	model string,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider:  provider,
		rag:       ragService,
		history:   history,
		finalizer: finalizer,
		model:     model,
		logger:    logger,
	}
}

// Chat handles one turn. Validation problems surface as errors (the
// handler maps them to 400); everything downstream of validation is
// absorbed into a fallback reply so the patient always gets something
// usable.
func (s *Service) Chat(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	language := finalize.DetectLanguage(req.Message, req.Language)

	var history []conversation.Turn
	if req.UserID != "" {
		history = s.history.Recent(req.UserID, config.HistoryWindow)
	}

	recordContext := ""
	if req.UserID != "" && req.UseRecords {
		recordContext = s.rag.SearchRecords(ctx, req.UserID, req.Message)
		if recordContext != "" {
			s.logger.Debug("record context attached", "user_id", req.UserID)
		}
	}

	system := s.buildSystemPrompt(req, history, recordContext)

	temperature := 0.7
	resp, err := s.provider.GenerateResponse(ctx, &llmServices.GenerateRequest{
		Model:       s.model,
		System:      system,
		Messages:    buildMessages(req.Message),
		MaxTokens:   2048,
		Temperature: &temperature,
	})
	if err != nil {
		s.logger.Error("chat generation failed", "error", err)
		kind := finalize.KindGeneric
		if finalize.IsQuotaError(err) {
			kind = finalize.KindQuota
		}
		return &Response{
			Success:  false,
			Response: s.finalizer.FallbackText(language, kind),
			Error:    err.Error(),
		}, nil
	}

	text := resp.Text()
	if text == "" {
		text = s.finalizer.FallbackText(language, finalize.KindEmpty)
	} else if req.UserID != "" {
		s.history.Append(req.UserID, conversation.Turn{Role: "user", Content: req.Message})
		s.history.Append(req.UserID, conversation.Turn{Role: "assistant", Content: text})
	}

	out := &Response{Success: true, Response: text}
	if req.UseVoice {
		out.AudioData = s.finalizer.Synthesize(ctx, text, language)
	}
	return out, nil
}

func (s *Service) buildSystemPrompt(req Request, history []conversation.Turn, recordContext string) string {
	if isGreeting(req.Message) && len(history) == 0 {
		return agent.PromptConfig{
			Persona: `You are a friendly healthcare assistant. The user sent a greeting or
casual message. Respond warmly and naturally, 1-2 sentences at most.
Let them know you are here to help with health questions.`,
			LanguagePolicy: fmt.Sprintf(agent.DefaultLanguagePolicy, req.Language),
		}.Build()
	}

	persona := `You are a friendly, empathetic healthcare assistant.
Start with a direct, helpful answer in 1-2 sentences, use bullet points
for lists, and end with a short encouraging closing. If the user
mentions pain, sickness or worry, open with one brief validating phrase;
for plain information questions skip the empathy. Only answer health and
wellness questions; politely decline anything else.`
	if wantsDetail(req.Message) {
		persona += "\nThe user asked for depth: give a thorough, structured answer."
	} else {
		persona += "\nKeep the answer concise."
	}

	return agent.PromptConfig{
		Persona: persona,
		ContextBlocks: []agent.ContextBlock{
			{Label: "PREVIOUS CONVERSATION", Content: formatHistory(history)},
			{Label: "CONTEXT FROM MEDICAL RECORDS", Content: recordContext},
		},
		SafetyPolicies: []string{
			"You are not a doctor; recommend seeing one for diagnosis, new symptoms, or medication changes.",
		},
		LanguagePolicy: fmt.Sprintf(agent.DefaultLanguagePolicy, req.Language),
	}.Build()
}

// buildMessages carries only the current turn; history rides in the
// system prompt.
func buildMessages(message string) []llmServices.Message {
	return []llmServices.Message{
		{
			Role:    "user",
			Content: []*llmModels.ContentBlock{llmModels.NewTextBlock(message)},
		},
	}
}

func formatHistory(history []conversation.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		role := "User"
		if turn.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
	}
	return b.String()
}

// isGreeting matches single-word keywords against whole tokens so that
// "hi" does not fire inside "high"; multi-word keywords keep substring
// matching.
func isGreeting(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, keyword := range greetingKeywords {
		if strings.Contains(keyword, " ") && strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, token := range strings.FieldsFunc(lower, isWordSeparator) {
		for _, keyword := range greetingKeywords {
			if !strings.Contains(keyword, " ") && token == keyword {
				return true
			}
		}
	}
	return false
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
}

func wantsDetail(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range detailKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
