package worker

// Strategy is the delivery route chosen for a downloaded file based on its
// size on disk.
type Strategy int

const (
	// DirectSend transfers the original file inline.
	DirectSend Strategy = iota
	// AnimatedFallback converts the file to a short silent animation first.
	AnimatedFallback
	// HostedLink publishes the file under a temporary URL instead of
	// transferring it.
	HostedLink
	// RejectTooLarge aborts delivery with a terminal failure notice.
	RejectTooLarge
)

func (s Strategy) String() string {
	switch s {
	case DirectSend:
		return "direct"
	case AnimatedFallback:
		return "animated"
	case HostedLink:
		return "hosted"
	case RejectTooLarge:
		return "reject"
	}
	return "unknown"
}

// SizePolicy captures the transport thresholds in effect. SmallLimit is the
// largest size deliverable inline; LargeLimit only matters when LargeEnabled.
type SizePolicy struct {
	SmallLimit     int64
	LargeLimit     int64
	LargeEnabled   bool
	HostingEnabled bool
}

// ChooseStrategy routes a file size to a delivery strategy. Anything within
// the active limit goes out directly; with the large transport enabled that
// limit is LargeLimit, otherwise SmallLimit. Files over the active limit go
// to hosting when enabled, then to the animated fallback so the requester
// still receives something, and are rejected outright only when the large
// transport is on and the file exceeds even LargeLimit.
func ChooseStrategy(sizeBytes int64, p SizePolicy) Strategy {
	if sizeBytes <= p.SmallLimit {
		return DirectSend
	}
	if p.LargeEnabled {
		if sizeBytes <= p.LargeLimit {
			return DirectSend
		}
		return RejectTooLarge
	}
	if p.HostingEnabled {
		return HostedLink
	}
	return AnimatedFallback
}
