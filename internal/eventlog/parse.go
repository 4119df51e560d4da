package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// rtpColumns is the fixed column count of an RTP log record:
// time_ms, payload_type, stream_id, sequence, rtp_timestamp, marker,
// size_bytes, twcc_number, unwrapped_sequence, track_id, quality_id,
// is_retransmission, is_fec.
const rtpColumns = 13

// maxLineLength bounds a single log line; RTP records are well under this.
const maxLineLength = 4096

// ParsePacketLog parses an RTP event log. Malformed lines are skipped,
// not fatal; the second return value counts them. A non-nil error means
// the read stopped early, an over-long line for example, and the tail
// of the log was lost; records parsed before that point are returned.
func ParsePacketLog(r io.Reader) ([]PacketEvent, int, error) {
	var (
		events  []PacketEvent
		skipped int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineLength), maxLineLength)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := parsePacketLine(line)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, ev)
	}

	return events, skipped, scanner.Err()
}

func parsePacketLine(line string) (PacketEvent, error) {
	fields := strings.Split(line, ",")
	if len(fields) != rtpColumns {
		return PacketEvent{}, fmt.Errorf("expected %d columns, got %d", rtpColumns, len(fields))
	}

	var (
		ev  PacketEvent
		err error
	)
	if ev.Time, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
		return PacketEvent{}, fmt.Errorf("time: %w", err)
	}
	pt, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("payload_type: %w", err)
	}
	ev.PayloadType = uint8(pt)
	ssrc, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("stream_id: %w", err)
	}
	ev.SSRC = uint32(ssrc)
	seq, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("sequence: %w", err)
	}
	ev.Sequence = uint16(seq)
	ts, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("rtp_timestamp: %w", err)
	}
	ev.RTPTimestamp = uint32(ts)
	if ev.Marker, err = parseBool(fields[5]); err != nil {
		return PacketEvent{}, fmt.Errorf("marker: %w", err)
	}
	if ev.Size, err = strconv.Atoi(fields[6]); err != nil {
		return PacketEvent{}, fmt.Errorf("size_bytes: %w", err)
	}
	twcc, err := strconv.ParseUint(fields[7], 10, 16)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("twcc_number: %w", err)
	}
	ev.TWCC = uint16(twcc)
	if ev.UnwrappedSequence, err = strconv.ParseInt(fields[8], 10, 64); err != nil {
		return PacketEvent{}, fmt.Errorf("unwrapped_sequence: %w", err)
	}
	track, err := strconv.ParseUint(fields[9], 10, 32)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("track_id: %w", err)
	}
	ev.TrackID = uint32(track)
	quality, err := strconv.ParseUint(fields[10], 10, 32)
	if err != nil {
		return PacketEvent{}, fmt.Errorf("quality_id: %w", err)
	}
	ev.QualityID = uint32(quality)
	if ev.IsRTX, err = parseBool(fields[11]); err != nil {
		return PacketEvent{}, fmt.Errorf("is_retransmission: %w", err)
	}
	if ev.IsFEC, err = parseBool(fields[12]); err != nil {
		return PacketEvent{}, fmt.Errorf("is_fec: %w", err)
	}

	return ev, nil
}

// ParseRTCPLog parses a two-column time_ms,size_bytes log. Error
// semantics match ParsePacketLog.
func ParseRTCPLog(r io.Reader) ([]RTCPEvent, int, error) {
	var (
		events  []RTCPEvent
		skipped int
	)
	err := forEachPair(r, &skipped, func(t, v int64) {
		events = append(events, RTCPEvent{Time: t, Size: int(v)})
	})
	return events, skipped, err
}

// ParseCCLog parses a two-column time_ms,target_bitrate_bps log. Error
// semantics match ParsePacketLog.
func ParseCCLog(r io.Reader) ([]ControlSample, int, error) {
	var (
		samples []ControlSample
		skipped int
	)
	err := forEachPair(r, &skipped, func(t, v int64) {
		samples = append(samples, ControlSample{Time: t, TargetBitrate: int(v)})
	})
	return samples, skipped, err
}

// forEachPair scans lines of the form "<int64>,<int64>", invoking fn for
// each valid pair and counting everything else as skipped. The returned
// error is the scanner's: non-nil when the read stopped before the end
// of the input.
func forEachPair(r io.Reader, skipped *int, fn func(t, v int64)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineLength), maxLineLength)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		left, right, ok := strings.Cut(line, ",")
		if !ok {
			*skipped++
			continue
		}
		t, err := strconv.ParseInt(strings.TrimSpace(left), 10, 64)
		if err != nil {
			*skipped++
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(right), 10, 64)
		if err != nil {
			*skipped++
			continue
		}
		fn(t, v)
	}
	return scanner.Err()
}

// parseBool accepts the textual encodings found in the logs: "true" and
// "false" in any case, plus "1" and "0".
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
