package eventlog

import (
	"os"
	"sort"
)

// Dataset owns all parsed records of one experiment. It is built once by
// Load, mutated in place by flag reconciliation, and then read by every
// metric stage. Nil slices mark roles whose log was absent or unreadable.
type Dataset struct {
	Name string

	SenderRTP    []PacketEvent
	ReceiverRTP  []PacketEvent
	SenderRTCP   []RTCPEvent
	ReceiverRTCP []RTCPEvent
	CC           []ControlSample

	// LinesSkipped counts malformed lines per role (data-quality signal,
	// non-fatal).
	LinesSkipped map[Role]int

	// Truncated records roles whose log could not be read to the end,
	// an over-long line for example. Records parsed before the failure
	// are kept, but the tail of that log is lost; callers should surface
	// this since a truncated log skews every derived series.
	Truncated map[Role]error
}

// Load discovers and parses all flow-0 logs of an experiment directory.
// A missing or unreadable role log leaves its slice nil; only a missing
// directory is an error.
func Load(dir, name string) (*Dataset, error) {
	logs, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Name:         name,
		LinesSkipped: make(map[Role]int),
		Truncated:    make(map[Role]error),
	}

	for role, path := range logs {
		f, err := os.Open(path)
		if err != nil {
			// Treat an unreadable file like a missing one: the series is
			// omitted, the experiment survives.
			continue
		}

		var truncErr error
		switch role {
		case RoleSenderRTP:
			ds.SenderRTP, ds.LinesSkipped[role], truncErr = ParsePacketLog(f)
		case RoleReceiverRTP:
			ds.ReceiverRTP, ds.LinesSkipped[role], truncErr = ParsePacketLog(f)
		case RoleSenderRTCP:
			ds.SenderRTCP, ds.LinesSkipped[role], truncErr = ParseRTCPLog(f)
		case RoleReceiverRTCP:
			ds.ReceiverRTCP, ds.LinesSkipped[role], truncErr = ParseRTCPLog(f)
		case RoleCC:
			ds.CC, ds.LinesSkipped[role], truncErr = ParseCCLog(f)
		}
		f.Close()
		if truncErr != nil {
			ds.Truncated[role] = truncErr
		}
	}

	ds.sortByTime()
	return ds, nil
}

// sortByTime restores capture order. The loggers write sequentially so
// the files are normally already ordered, but every downstream stage
// assumes it, so it is enforced here rather than trusted.
func (ds *Dataset) sortByTime() {
	sort.SliceStable(ds.SenderRTP, func(i, j int) bool { return ds.SenderRTP[i].Time < ds.SenderRTP[j].Time })
	sort.SliceStable(ds.ReceiverRTP, func(i, j int) bool { return ds.ReceiverRTP[i].Time < ds.ReceiverRTP[j].Time })
	sort.SliceStable(ds.SenderRTCP, func(i, j int) bool { return ds.SenderRTCP[i].Time < ds.SenderRTCP[j].Time })
	sort.SliceStable(ds.ReceiverRTCP, func(i, j int) bool { return ds.ReceiverRTCP[i].Time < ds.ReceiverRTCP[j].Time })
	sort.SliceStable(ds.CC, func(i, j int) bool { return ds.CC[i].Time < ds.CC[j].Time })
}

// TotalSkipped returns the number of malformed lines across all roles.
func (ds *Dataset) TotalSkipped() int {
	total := 0
	for _, n := range ds.LinesSkipped {
		total += n
	}
	return total
}

// StartTime returns the earliest sender RTP timestamp, or the earliest
// receiver RTP timestamp when the sender log is absent. Zero when the
// dataset has no RTP records at all.
func (ds *Dataset) StartTime() int64 {
	if len(ds.SenderRTP) > 0 {
		return ds.SenderRTP[0].Time
	}
	if len(ds.ReceiverRTP) > 0 {
		return ds.ReceiverRTP[0].Time
	}
	return 0
}
