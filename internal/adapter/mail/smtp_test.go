package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("shop@example.com", []string{"a@example.com", "b@example.com"}, "Reset code", "123456")
	require.NoError(t, err)

	assert.Equal(t, []string{"<a@example.com>", "<b@example.com>"}, msg.GetToString())
	assert.Equal(t, []string{"Reset code"}, msg.GetGenHeader(gomail.HeaderSubject))
}

func TestBuildMessage_Errors(t *testing.T) {
	_, err := buildMessage("shop@example.com", nil, "s", "b")
	assert.Error(t, err)

	_, err = buildMessage("shop@example.com", []string{"not an address"}, "s", "b")
	assert.Error(t, err)

	_, err = buildMessage("", []string{"a@example.com"}, "s", "b")
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), []string{"a@example.com"}, "Hi", "body"))

	entries := logs.FilterMessage("mail not sent, smtp disabled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Hi", entries[0].ContextMap()["subject"])
}
