package contextutil_test

import (
	"context"
	"testing"

	"go-ems/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-42")
	assert.Equal(t, "rid-42", contextutil.GetRequestID(ctx))
}

func TestGetRequestID_Kosong(t *testing.T) {
	assert.Equal(t, "", contextutil.GetRequestID(context.Background()))
}

func TestGetLogger(t *testing.T) {
	stored := zap.NewNop().Named("request")
	fallback := zap.NewNop().Named("fallback")

	t.Run("logger dari context", func(t *testing.T) {
		ctx := contextutil.WithLogger(context.Background(), stored)
		assert.Same(t, stored, contextutil.GetLogger(ctx, fallback))
	})

	t.Run("fallback saat context kosong", func(t *testing.T) {
		assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	})

	t.Run("tanpa fallback tidak panic", func(t *testing.T) {
		l := contextutil.GetLogger(context.Background(), nil)
		assert.NotNil(t, l)
	})
}
