package dataset

import "fmt"

// PadSequences returns copies of seqs, each exactly maxLen long. Short
// sequences are zero-filled and long ones cut, at the end chosen by padding
// and truncating respectively.
func PadSequences(seqs [][]int32, maxLen int, padding, truncating Padding) ([][]int32, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrMaxLen, maxLen)
	}
	out := make([][]int32, len(seqs))
	for i, s := range seqs {
		if len(s) > maxLen {
			if truncating == Pre {
				s = s[len(s)-maxLen:]
			} else {
				s = s[:maxLen]
			}
		}
		row := make([]int32, maxLen)
		if padding == Pre {
			copy(row[maxLen-len(s):], s)
		} else {
			copy(row, s)
		}
		out[i] = row
	}

	return out, nil
}
