// Package report persists analysis results: one CSV file per derived
// series under <outdir>/<experiment>/, a run-wide summary.csv, and a
// styled terminal table of the run.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aalekseevx/bwe-report/internal/analysis"
)

// Series file names written under each experiment directory.
const (
	FileBitrate       = "bitrate.csv"
	FileTrackBitrate  = "track_bitrate.csv"
	FileRTXBitrate    = "rtx_bitrate.csv"
	FileFECBitrate    = "fec_bitrate.csv"
	FileStreamLoss    = "stream_loss.csv"
	FileTransportLoss = "transport_loss.csv"
	FileJitter        = "jitter.csv"
	FileDelay         = "delay.csv"
	FileTimeline      = "timeline.csv"
	FileCapacity      = "capacity.csv"
	FileTarget        = "target.csv"
	FileWarnings      = "warnings.csv"
)

// WriteResult writes every available series of r into its own CSV file
// under <outDir>/<experiment>/. Unavailable series produce no file at
// all, so a missing file and an empty series stay distinguishable.
func WriteResult(outDir string, r *analysis.Result) error {
	dir := filepath.Join(outDir, r.Experiment)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create experiment dir: %w", err)
	}

	if err := writeBitrate(filepath.Join(dir, FileBitrate), r.Bitrate); err != nil {
		return err
	}
	if err := writeKeyedBitrate(filepath.Join(dir, FileTrackBitrate), "track_id", r.TrackBitrate); err != nil {
		return err
	}
	if err := writeBitrate(filepath.Join(dir, FileRTXBitrate), r.RTXBitrate); err != nil {
		return err
	}
	if err := writeBitrate(filepath.Join(dir, FileFECBitrate), r.FECBitrate); err != nil {
		return err
	}
	if err := writeStreamLoss(filepath.Join(dir, FileStreamLoss), r.StreamLoss); err != nil {
		return err
	}
	if err := writeTransportLoss(filepath.Join(dir, FileTransportLoss), r.TransportLoss); err != nil {
		return err
	}
	if err := writeJitter(filepath.Join(dir, FileJitter), r.Jitter); err != nil {
		return err
	}
	if err := writeDelay(filepath.Join(dir, FileDelay), r.Delay); err != nil {
		return err
	}
	if err := writeTimeline(filepath.Join(dir, FileTimeline), r.Timeline); err != nil {
		return err
	}
	if err := writeCapacity(filepath.Join(dir, FileCapacity), r.Capacity); err != nil {
		return err
	}
	if err := writeCapacity(filepath.Join(dir, FileTarget), r.Target); err != nil {
		return err
	}
	return writeWarnings(filepath.Join(dir, FileWarnings), r.Warnings)
}

func writeSeries(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	if err := rows(w); err != nil {
		_ = f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeBitrate(path string, series []analysis.BitrateSample) error {
	if series == nil {
		return nil
	}
	return writeSeries(path, []string{"time_ms", "kbps"}, func(w *csv.Writer) error {
		for i := range series {
			row := []string{
				strconv.FormatInt(series[i].Time, 10),
				ff(series[i].Kbps),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeKeyedBitrate(path, keyName string, series map[uint32][]analysis.BitrateSample) error {
	if len(series) == 0 {
		return nil
	}
	return writeSeries(path, []string{keyName, "time_ms", "kbps"}, func(w *csv.Writer) error {
		for _, key := range sortedKeys(series) {
			for _, s := range series[key] {
				row := []string{
					strconv.FormatUint(uint64(key), 10),
					strconv.FormatInt(s.Time, 10),
					ff(s.Kbps),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeStreamLoss(path string, series map[uint32][]analysis.LossSample) error {
	if len(series) == 0 {
		return nil
	}
	return writeSeries(path, []string{"ssrc", "time_ms", "lost"}, func(w *csv.Writer) error {
		for _, ssrc := range sortedKeys(series) {
			for _, s := range series[ssrc] {
				row := []string{
					strconv.FormatUint(uint64(ssrc), 10),
					strconv.FormatInt(s.Time, 10),
					strconv.FormatInt(s.Lost, 10),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeTransportLoss(path string, series []analysis.LossSample) error {
	if series == nil {
		return nil
	}
	return writeSeries(path, []string{"time_ms", "lost"}, func(w *csv.Writer) error {
		for i := range series {
			row := []string{
				strconv.FormatInt(series[i].Time, 10),
				strconv.FormatInt(series[i].Lost, 10),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeJitter(path string, series map[uint32][]analysis.JitterSample) error {
	if len(series) == 0 {
		return nil
	}
	return writeSeries(path, []string{"track_id", "time_ms", "jitter_ms"}, func(w *csv.Writer) error {
		for _, track := range sortedKeys(series) {
			for _, s := range series[track] {
				row := []string{
					strconv.FormatUint(uint64(track), 10),
					strconv.FormatInt(s.Time, 10),
					ff(s.Ms),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeDelay(path string, series []analysis.DelaySample) error {
	if series == nil {
		return nil
	}
	return writeSeries(path, []string{"time_ms", "delay_ms"}, func(w *csv.Writer) error {
		for i := range series {
			row := []string{
				strconv.FormatInt(series[i].Time, 10),
				ff(series[i].Ms),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTimeline(path string, segments []analysis.QualitySegment) error {
	if segments == nil {
		return nil
	}
	header := []string{"track_id", "quality_id", "quality_name", "start_ms", "end_ms"}
	return writeSeries(path, header, func(w *csv.Writer) error {
		for i := range segments {
			seg := &segments[i]
			row := []string{
				strconv.FormatUint(uint64(seg.TrackID), 10),
				strconv.FormatUint(uint64(seg.QualityID), 10),
				seg.QualityName,
				strconv.FormatInt(seg.Start, 10),
				strconv.FormatInt(seg.End, 10),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCapacity(path string, series []analysis.CapacitySample) error {
	if series == nil {
		return nil
	}
	return writeSeries(path, []string{"time_ms", "kbps"}, func(w *csv.Writer) error {
		for i := range series {
			row := []string{
				strconv.FormatInt(series[i].Time, 10),
				ff(series[i].Kbps),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeWarnings(path string, warnings []analysis.Warning) error {
	if len(warnings) == 0 {
		return nil
	}
	return writeSeries(path, []string{"kind", "subject", "message"}, func(w *csv.Writer) error {
		for i := range warnings {
			row := []string{string(warnings[i].Kind), warnings[i].Subject, warnings[i].Message}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// SummaryWriter appends one row per analyzed experiment to the run-wide
// summary.csv. Not safe for concurrent use; the runner serializes rows.
type SummaryWriter struct {
	f *os.File
	w *csv.Writer
}

// NewSummaryWriter creates <outDir>/summary.csv and writes the header.
func NewSummaryWriter(outDir string) (*SummaryWriter, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(outDir, "summary.csv"))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	hdr := []string{
		"experiment",
		"sender_packets",
		"receiver_packets",
		"sender_bytes",
		"receiver_bytes",
		"rtx_packets",
		"fec_packets",
		"sender_rtcp_bytes",
		"receiver_rtcp_bytes",
		"lost_total",
		"mean_jitter_ms",
		"max_jitter_ms",
		"delay_samples",
		"delay_p50_ms",
		"delay_p95_ms",
		"delay_p99_ms",
		"segments",
		"warnings",
		"lines_skipped",
	}
	if err := w.Write(hdr); err != nil {
		_ = f.Close()
		return nil, err
	}
	w.Flush()
	return &SummaryWriter{f: f, w: w}, nil
}

// WriteRow appends one experiment summary.
func (sw *SummaryWriter) WriteRow(s analysis.Summary) error {
	row := []string{
		s.Experiment,
		strconv.Itoa(s.SenderPackets),
		strconv.Itoa(s.ReceiverPackets),
		strconv.FormatInt(s.SenderBytes, 10),
		strconv.FormatInt(s.ReceiverBytes, 10),
		strconv.Itoa(s.RTXPackets),
		strconv.Itoa(s.FECPackets),
		strconv.FormatInt(s.SenderRTCPBytes, 10),
		strconv.FormatInt(s.ReceiverRTCPBytes, 10),
		strconv.FormatInt(s.LostTotal, 10),
		ff(s.MeanJitterMs),
		ff(s.MaxJitterMs),
		strconv.Itoa(s.DelaySamples),
		ff(s.DelayP50Ms),
		ff(s.DelayP95Ms),
		ff(s.DelayP99Ms),
		strconv.Itoa(s.Segments),
		strconv.Itoa(s.Warnings),
		strconv.Itoa(s.LinesSkipped),
	}
	return sw.w.Write(row)
}

// Close flushes and closes summary.csv.
func (sw *SummaryWriter) Close() error {
	sw.w.Flush()
	if err := sw.w.Error(); err != nil {
		_ = sw.f.Close()
		return err
	}
	return sw.f.Close()
}
