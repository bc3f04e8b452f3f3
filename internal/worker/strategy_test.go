package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	mib = int64(1024 * 1024)
	gib = 1024 * mib
)

func TestChooseStrategy(t *testing.T) {
	base := SizePolicy{SmallLimit: 50 * mib, LargeLimit: 2 * gib}

	tests := []struct {
		name   string
		size   int64
		policy SizePolicy
		want   Strategy
	}{
		{"small file goes direct", 10 * mib, base, DirectSend},
		{"exactly at the limit goes direct", 50 * mib, base, DirectSend},
		{"over limit without hosting converts", 60 * mib, base, AnimatedFallback},
		{"over limit with hosting publishes", 60 * mib, withHosting(base), HostedLink},
		{"huge file without large gate converts", 1536 * mib, base, AnimatedFallback},
		{"huge file with hosting publishes", 1536 * mib, withHosting(base), HostedLink},
		{"over small limit goes direct with large transport", 60 * mib, withLargeGate(base), DirectSend},
		{"huge file goes direct with large transport", 1536 * mib, withLargeGate(base), DirectSend},
		{"large transport wins over hosting under its limit", 1536 * mib, withLargeGate(withHosting(base)), DirectSend},
		{"over large limit rejects when gated", 3 * gib, withLargeGate(base), RejectTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseStrategy(tt.size, tt.policy))
		})
	}
}

func withHosting(p SizePolicy) SizePolicy {
	p.HostingEnabled = true
	return p
}

func withLargeGate(p SizePolicy) SizePolicy {
	p.LargeEnabled = true
	return p
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "direct", DirectSend.String())
	assert.Equal(t, "animated", AnimatedFallback.String())
	assert.Equal(t, "hosted", HostedLink.String())
	assert.Equal(t, "reject", RejectTooLarge.String())
}
