package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	return r.insertEvent(ctx, tableAnswers,
		[]string{"session_id", "deck_name", "card_number", "question", "correct_answer", "user_answer", "correct", "response_ms", "points"},
		[]any{data.SessionID, data.DeckName, data.CardNumber, data.Question, data.CorrectAnswer, data.UserAnswer, data.Correct, data.ResponseMs, data.Points},
	)
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	return r.insertEvent(ctx, tableSessions,
		[]string{"session_id", "deck_name", "mode", "action", "questions_answered", "correct_answers", "points", "duration_secs"},
		[]any{data.SessionID, data.DeckName, data.Mode, data.Action, data.QuestionsAnswered, data.CorrectAnswers, data.Points, data.DurationSecs},
	)
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.insertEvent(ctx, tableLLMRequests,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
}

var llmColumns = []string{"sequence", "timestamp", "provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

type llmRow struct {
	Sequence     int64  `sql:"sequence"`
	Timestamp    int64  `sql:"timestamp"`
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      bool   `sql:"success"`
	ErrorMessage string `sql:"error_message"`
	RequestBody  string `sql:"request_body"`
	ResponseBody string `sql:"response_body"`
}

func (r llmRow) record() LLMRequestRecord {
	return LLMRequestRecord{
		LLMRequestEventData: LLMRequestEventData{
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
			RequestBody:  r.RequestBody,
			ResponseBody: r.ResponseBody,
		},
		Sequence:  r.Sequence,
		Timestamp: time.UnixMilli(r.Timestamp),
	}
}

// QueryLLMRequests returns LLM request events, newest first.
func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error) {
	sel := builder.Select(llmColumns...).
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	var rows []llmRow
	if err := scanAll(ctx, r.drv, applyOpts(sel, opts), &rows); err != nil {
		return nil, fmt.Errorf("query llm requests: %w", err)
	}

	out := make([]LLMRequestRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// GetLLMRequest returns one LLM request event by sequence, or nil.
func (r *eventRepo) GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestRecord, error) {
	sel := builder.Select(llmColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("sequence", sequence))
	var rows []llmRow
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("get llm request %d: %w", sequence, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := rows[0].record()
	return &rec, nil
}

type sessionRow struct {
	SessionID         string `sql:"session_id"`
	DeckName          string `sql:"deck_name"`
	Mode              string `sql:"mode"`
	Timestamp         int64  `sql:"timestamp"`
	QuestionsAnswered int    `sql:"questions_answered"`
	CorrectAnswers    int    `sql:"correct_answers"`
	Points            int    `sql:"points"`
	DurationSecs      int    `sql:"duration_secs"`
}

// QuerySessionSummaries returns finished sessions, newest first.
func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := builder.Select("session_id", "deck_name", "mode", "timestamp", "questions_answered", "correct_answers", "points", "duration_secs").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	var rows []sessionRow
	if err := scanAll(ctx, r.drv, applyOpts(sel, opts), &rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	out := make([]SessionSummaryRecord, len(rows))
	for i, row := range rows {
		out[i] = SessionSummaryRecord{
			SessionID:         row.SessionID,
			DeckName:          row.DeckName,
			Mode:              row.Mode,
			Timestamp:         time.UnixMilli(row.Timestamp),
			QuestionsAnswered: row.QuestionsAnswered,
			CorrectAnswers:    row.CorrectAnswers,
			Points:            row.Points,
			DurationSecs:      row.DurationSecs,
		}
	}
	return out, nil
}

// DeckAccuracy aggregates every recorded answer by deck name.
func (r *eventRepo) DeckAccuracy(ctx context.Context) ([]DeckAccuracy, error) {
	sel := builder.Select(
		"deck_name",
		entsql.As(entsql.Count("*"), "answered"),
		entsql.As(entsql.Sum("correct"), "correct"),
	).
		From(entsql.Table(tableAnswers)).
		GroupBy("deck_name").
		OrderBy(entsql.Asc("deck_name"))

	var rows []struct {
		DeckName string `sql:"deck_name"`
		Answered int    `sql:"answered"`
		Correct  int    `sql:"correct"`
	}
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query deck accuracy: %w", err)
	}

	out := make([]DeckAccuracy, len(rows))
	for i, row := range rows {
		out[i] = DeckAccuracy{DeckName: row.DeckName, Answered: row.Answered, Correct: row.Correct}
	}
	return out, nil
}

// MostMissed ranks questions by wrong answers across all decks.
func (r *eventRepo) MostMissed(ctx context.Context, limit int) ([]MissedCard, error) {
	sel := builder.Select(
		"deck_name",
		"question",
		entsql.As(entsql.Count("*"), "misses"),
	).
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("correct", false)).
		GroupBy("deck_name", "question").
		OrderBy(entsql.Desc("misses"), entsql.Asc("question"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	var rows []struct {
		DeckName string `sql:"deck_name"`
		Question string `sql:"question"`
		Misses   int    `sql:"misses"`
	}
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query most missed: %w", err)
	}

	out := make([]MissedCard, len(rows))
	for i, row := range rows {
		out[i] = MissedCard{DeckName: row.DeckName, Question: row.Question, Misses: row.Misses}
	}
	return out, nil
}
