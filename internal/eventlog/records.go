// Package eventlog discovers and parses per-experiment packet event logs.
//
// Each experiment directory holds one log file per role, named
// "<flow>_<role>.log" (only flow 0 is analyzed). RTP logs carry one
// fixed-column record per packet; RTCP and congestion-control logs are
// two-column time/value files. Parsing is tolerant by design: a missing
// role omits that series, a malformed line is skipped and counted, and
// neither aborts the experiment.
package eventlog

// Role identifies which log a record came from.
type Role string

// Log roles embedded in the file names.
const (
	RoleCC           Role = "cc"
	RoleSenderRTP    Role = "sender_rtp"
	RoleReceiverRTP  Role = "receiver_rtp"
	RoleSenderRTCP   Role = "sender_rtcp"
	RoleReceiverRTCP Role = "receiver_rtcp"
)

// knownRoles gates discovery: files with any other role label are ignored.
var knownRoles = map[Role]bool{
	RoleCC:           true,
	RoleSenderRTP:    true,
	RoleReceiverRTP:  true,
	RoleSenderRTCP:   true,
	RoleReceiverRTCP: true,
}

// PacketEvent is one logged RTP packet observation.
//
// UnwrappedSequence is monotonically increasing in send/arrival order
// within an SSRC (the logger already corrected 16-bit wraps). TWCC is the
// transport-wide sequence number, unique per direction, and is the join
// key for correlating sender and receiver views of the same packet.
type PacketEvent struct {
	Time              int64 // Unix milliseconds
	PayloadType       uint8
	SSRC              uint32
	Sequence          uint16
	RTPTimestamp      uint32
	Marker            bool
	Size              int // bytes on the wire
	TWCC              uint16
	UnwrappedSequence int64
	TrackID           uint32
	QualityID         uint32
	IsRTX             bool
	IsFEC             bool
}

// RTCPEvent is one logged RTCP packet, kept for volume accounting only.
type RTCPEvent struct {
	Time int64 // Unix milliseconds
	Size int
}

// ControlSample is one congestion-controller target bitrate output.
type ControlSample struct {
	Time          int64 // Unix milliseconds
	TargetBitrate int   // bits per second
}
