package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableDecks       = "decks"
	tableSnapshots   = "snapshots"
	tableAnswers     = "answer_events"
	tableSessions    = "session_events"
	tableLLMRequests = "llm_request_events"
)

func idColumn() *schema.Column {
	return &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
}

// eventTable starts an event table with the columns every event shares:
// an auto-increment id, the global sequence and a unix-millisecond
// timestamp.
func eventTable(name string) *schema.Table {
	return schema.NewTable(name).
		AddPrimary(idColumn()).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
		AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeInt64})
}

func str(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func integer(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

func int64col(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt64, Default: 0}
}

func boolean(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeBool, Default: false}
}

// tables returns the schema of every table the store manages.
func tables() []*schema.Table {
	decks := schema.NewTable(tableDecks).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeString, Size: 64}).
		AddColumn(&schema.Column{Name: "name", Type: field.TypeString, Unique: true}).
		AddColumn(str("file_name")).
		AddColumn(str("cards")).
		AddColumn(int64col("created_at")).
		AddColumn(int64col("last_used"))

	snapshots := schema.NewTable(tableSnapshots).
		AddPrimary(idColumn()).
		AddColumn(int64col("sequence")).
		AddColumn(int64col("timestamp")).
		AddColumn(str("data")).
		AddIndex("snapshot_timestamp", false, []string{"timestamp"})

	answers := eventTable(tableAnswers).
		AddColumn(str("session_id")).
		AddColumn(str("deck_name")).
		AddColumn(integer("card_number")).
		AddColumn(str("question")).
		AddColumn(str("correct_answer")).
		AddColumn(str("user_answer")).
		AddColumn(boolean("correct")).
		AddColumn(int64col("response_ms")).
		AddColumn(integer("points")).
		AddIndex("answerevent_deck_name", false, []string{"deck_name"}).
		AddIndex("answerevent_session_id", false, []string{"session_id"})

	sessions := eventTable(tableSessions).
		AddColumn(str("session_id")).
		AddColumn(str("deck_name")).
		AddColumn(str("mode")).
		AddColumn(str("action")).
		AddColumn(integer("questions_answered")).
		AddColumn(integer("correct_answers")).
		AddColumn(integer("points")).
		AddColumn(integer("duration_secs")).
		AddIndex("sessionevent_action", false, []string{"action"})

	llm := eventTable(tableLLMRequests).
		AddColumn(str("provider")).
		AddColumn(str("model")).
		AddColumn(str("purpose")).
		AddColumn(integer("input_tokens")).
		AddColumn(integer("output_tokens")).
		AddColumn(int64col("latency_ms")).
		AddColumn(boolean("success")).
		AddColumn(str("error_message")).
		AddColumn(str("request_body")).
		AddColumn(str("response_body"))

	return []*schema.Table{decks, snapshots, answers, sessions, llm}
}

// migrate creates missing tables and columns. It never drops anything.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, tables()...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
