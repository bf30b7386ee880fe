// internal/integrations/integration_test.go
package integrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	integ := &Integration{TenantID: "acme", Name: "siem", Enabled: true}
	require.NoError(t, s.Create(ctx, integ))
	assert.NotEmpty(t, integ.ID)
	assert.Len(t, integ.Token, 48)

	got, err := s.GetByToken(ctx, integ.Token)
	require.NoError(t, err)
	assert.Equal(t, "siem", got.Name)

	_, err = s.GetByToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"source":"siem","indicators":[]}`)

	t.Run("valid signature", func(t *testing.T) {
		integ := &Integration{Enabled: true, Secret: "s3cret"}
		assert.NoError(t, integ.Verify(payload, Sign(payload, "s3cret")))
	})

	t.Run("wrong secret", func(t *testing.T) {
		integ := &Integration{Enabled: true, Secret: "s3cret"}
		err := integ.Verify(payload, Sign(payload, "other"))
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("no secret accepts unsigned", func(t *testing.T) {
		integ := &Integration{Enabled: true}
		assert.NoError(t, integ.Verify(payload, ""))
	})

	t.Run("disabled", func(t *testing.T) {
		integ := &Integration{Enabled: false}
		assert.ErrorIs(t, integ.Verify(payload, ""), ErrDisabled)
	})
}
