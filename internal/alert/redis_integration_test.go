//go:build integration

package alert

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "enrolld/internal/platform/redis"
	"enrolld/pkg/testutil/containers"
)

func TestRedisSink_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)

	client, err := platformredis.New(rc.URL)
	require.NoError(t, err)
	defer client.Close()

	const channel = "enrolld.alerts"
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := NewRedisSink(client.Client, channel, logger)

	event := NewEvent(KindRepeatVerification, "REG-001", time.Now())
	sink.Notify(ctx, event)

	msgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(msgCtx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, KindRepeatVerification, got.Kind)
	assert.Equal(t, "REG-001", got.SubjectID.String())
}
