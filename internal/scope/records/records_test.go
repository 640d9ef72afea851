package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusCheck(t *testing.T) {
	before := time.Now().UTC()
	a := NewStatusCheck("acme1")
	b := NewStatusCheck("acme1")

	assert.Equal(t, "acme1", a.ClientName)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Time.Location())
	assert.WithinDuration(t, before, a.Timestamp.Time, time.Second)
}

func TestStatusCheckDocument(t *testing.T) {
	check := StatusCheck{
		ID:         "abc",
		ClientName: "acme",
		Timestamp:  NewTimestamp(time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)),
	}

	doc := check.Document()
	assert.Equal(t, db.Document{
		"id":          "abc",
		"client_name": "acme",
		"timestamp":   "2024-03-01T12:30:00.0000005Z",
	}, doc)

	back, err := StatusCheckFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, check.ID, back.ID)
	assert.True(t, check.Timestamp.Time.Equal(back.Timestamp.Time))
}

func TestContactMessageFromDocumentIgnoresExtraFields(t *testing.T) {
	doc := db.Document{
		"_id":       "driver-id",
		"id":        "m1",
		"name":      "A",
		"email":     "a@x.com",
		"message":   "hi",
		"timestamp": "2024-01-01T10:00:00.123456+00:00",
		"spam":      true,
	}

	msg, err := ContactMessageFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "a@x.com", msg.Email)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC), msg.Timestamp.Time)

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1","name":"A","email":"a@x.com","message":"hi","timestamp":"2024-01-01T10:00:00.123456Z"}`, string(out))
}

func TestFromDocumentTimestampPassThrough(t *testing.T) {
	doc := db.Document{
		"id":          "s1",
		"client_name": "legacy",
		"timestamp":   json.Number("1700000000"),
	}

	check, err := StatusCheckFromDocument(doc)
	require.NoError(t, err)

	assert.True(t, check.Timestamp.passthrough)
	assert.Equal(t, json.Number("1700000000"), check.Timestamp.raw)

	out, err := json.Marshal(check)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"s1","client_name":"legacy","timestamp":1700000000}`, string(out))

	// Written back unchanged as well
	assert.Equal(t, json.Number("1700000000"), check.Document()["timestamp"])
}

func TestFromDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  db.Document
	}{
		{"missing id", db.Document{"client_name": "x", "timestamp": "2024-01-01T00:00:00Z"}},
		{"wrong type", db.Document{"id": 1, "client_name": "x", "timestamp": "2024-01-01T00:00:00Z"}},
		{"bad timestamp", db.Document{"id": "1", "client_name": "x", "timestamp": "yesterday"}},
		{"missing timestamp", db.Document{"id": "1", "client_name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StatusCheckFromDocument(tt.doc)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}

	_, err := ContactMessageFromDocument(db.Document{"id": "1", "name": "a", "email": "a@x", "message": "m"})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-06T07:08:09Z", want},
		{"2024-05-06T07:08:09+00:00", want},
		{"2024-05-06T09:08:09+02:00", want},
		{"2024-05-06T07:08:09", want},
		{"2024-05-06 07:08:09", want},
		{"2024-05-06T07:08:09.250000", want.Add(250 * time.Millisecond)},
		{"2024-05-06", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseTimestamp("not a time")
	assert.Error(t, err)
}

func TestTimestampUnmarshalJSON(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-06T07:08:09Z"`), &ts))
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`42`), &ts))
	assert.True(t, ts.passthrough)
	assert.Equal(t, float64(42), ts.raw)
}
