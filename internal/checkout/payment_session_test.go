package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSession_ManualCodeLength(t *testing.T) {
	p := NewPaymentSession(42, "0712345678", 2500, testNow, DefaultPaymentWindow)

	assert.ErrorIs(t, p.CheckManualCode("AB12C", testNow), ErrCodeTooShort)
	assert.NoError(t, p.CheckManualCode("QH4RT8K9L2", testNow))
}

func TestPaymentSession_ExpiryBlocksManualCode(t *testing.T) {
	p := NewPaymentSession(42, "0712345678", 2500, testNow, DefaultPaymentWindow)

	lastSecond := testNow.Add(DefaultPaymentWindow - time.Second)
	assert.NoError(t, p.CheckManualCode("QH4RT8K9L2", lastSecond))

	expired := testNow.Add(DefaultPaymentWindow)
	assert.ErrorIs(t, p.CheckManualCode("QH4RT8K9L2", expired), ErrPaymentExpired)
}

func TestPaymentSession_Remaining(t *testing.T) {
	p := NewPaymentSession(42, "0712345678", 2500, testNow, DefaultPaymentWindow)

	assert.Equal(t, 300, p.Remaining(testNow))
	assert.Equal(t, 299, p.Remaining(testNow.Add(time.Second)))
	assert.Equal(t, 0, p.Remaining(testNow.Add(10*time.Minute)))
}

func TestPaymentSession_SecondPushRejected(t *testing.T) {
	p := NewPaymentSession(42, "0712345678", 2500, testNow, DefaultPaymentWindow)

	require.NoError(t, p.BeginPush("req-001"))
	err := p.BeginPush("req-002")

	assert.ErrorIs(t, err, ErrPushActive)
	assert.Equal(t, "req-001", p.PushID)
}

func TestPaymentSession_PushCanBeReissuedAfterEnd(t *testing.T) {
	p := NewPaymentSession(42, "0712345678", 2500, testNow, DefaultPaymentWindow)

	require.NoError(t, p.BeginPush("req-001"))
	p.EndPush()

	assert.NoError(t, p.BeginPush("req-002"))
}
