package output

import (
	"fmt"
	"io"
	"math"

	"github.com/dd0wney/daocluster/pkg/hierarchy"
)

// Format selects the per-line textual layout of a written cluster list.
type Format int

const (
	FormatPure Format = iota
	FormatSimple
	FormatShared
	FormatExtended
)

// headerWidth is the reserved field width for the backpatched cluster
// count in a non-PURE header: wide enough for any uint32 count plus
// padding, so the final overwrite never changes the header's byte length.
const headerWidth = 12

const headerPrefix = "# Clusters: "

// shareTolerance controls when SHARED format considers a member's share
// "equal" to a uniform 1/n split and so omits the :share suffix.
const shareTolerance = 1e-9

// WriteCNL writes selected in the given format to w, which must support
// Seek so the header's cluster count can be backpatched once the true
// count is known. fuzzy and numbered are reported verbatim in the
// header; fltMembers suppresses any node whose id has the top bit set
// from every cluster's member list.
func WriteCNL(w io.WriteSeeker, selected []Selected, format Format, fuzzy, numbered, fltMembers bool) (int, error) {
	if format != FormatPure {
		if _, err := fmt.Fprintf(w, "%s%*s, Fuzzy: %d, Numbered: %d\n", headerPrefix, headerWidth, "", boolToInt(fuzzy), boolToInt(numbered)); err != nil {
			return 0, err
		}
	}

	written := 0
	for _, sel := range selected {
		members := sel.Members
		if fltMembers {
			members = filterHighBit(members)
		}
		if len(members) == 0 {
			continue
		}
		if err := writeClusterLine(w, sel, members, format); err != nil {
			return written, err
		}
		written++
	}

	if format != FormatPure {
		if _, err := w.Seek(int64(len(headerPrefix)), io.SeekStart); err != nil {
			return written, err
		}
		countField := fmt.Sprintf("%*d", headerWidth, written)
		if _, err := io.WriteString(w, countField); err != nil {
			return written, err
		}
		if _, err := w.Seek(0, io.SeekEnd); err != nil {
			return written, err
		}
	}

	return written, nil
}

func writeClusterLine(w io.Writer, sel Selected, members []hierarchy.NodeShare, format Format) error {
	switch format {
	case FormatPure:
		for i, m := range members {
			if i > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%d", m.NodeID); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n")
		return err

	case FormatSimple:
		if _, err := fmt.Fprintf(w, "# cluster %d\n", sel.Cluster.ID); err != nil {
			return err
		}
		for i, m := range members {
			if i > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%d", m.NodeID); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n")
		return err

	case FormatShared:
		uniform := 1.0
		if len(members) > 0 {
			uniform = 1.0 / float64(len(members))
		}
		for i, m := range members {
			if i > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if math.Abs(m.Share-uniform) <= shareTolerance {
				if _, err := fmt.Fprintf(w, "%d", m.NodeID); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, "%d:%.6f", m.NodeID, m.Share); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, "\n")
		return err

	case FormatExtended:
		for _, m := range members {
			if _, err := fmt.Fprintf(w, "%d > %d:%.6f\n", sel.Cluster.ID, m.NodeID, m.Share); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("output: unknown format %d", format)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// highBit is the top bit of a uint32 id, used to mark "phantom" nodes a
// caller submitted for structural reasons and that should never surface
// in emitted member lists when fltMembers is set.
const highBit = uint32(1) << 31

func filterHighBit(members []hierarchy.NodeShare) []hierarchy.NodeShare {
	out := make([]hierarchy.NodeShare, 0, len(members))
	for _, m := range members {
		if m.NodeID&highBit != 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}
