//==============================================================================
// normalize: Shared post-processing of solver output
// 01   Initial version


// Whatever sparse name/value pairs a solver reports are assembled here into
// the dense solution vector of the canonical result, and the raw log text is
// turned into the verbatim message list. All helpers tolerate missing or
// malformed input and degrade instead of failing.

package solver

import (
	"os"
	"strconv"
	"strings"
)

//==============================================================================

// nameIndex extracts the 1-based column index encoded as the trailing digit
// run of a variable name (e.g. "X12" and "C0012" both yield 12). It returns
// -1 if the name holds no trailing digits.
func nameIndex(name string) int {
	end := len(name)
	start := end
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	if start == end {
		return -1
	}

	index, err := strconv.Atoi(name[start:end])
	if err != nil || index < 1 {
		return -1
	}

	return index
}

//==============================================================================

// denseVector builds the dense solution vector of the given length from the
// sparse name/value pairs reported by a solver. Values are placed by the
// 1-based numeric suffix of their names; columns the solver omitted default
// to 0, names without a valid index or out of range are skipped, and any
// magnitude below the near-zero threshold is snapped to exactly 0.
func denseVector(vals map[string]float64, columnCount int, nearZero float64) []float64 {
	x := make([]float64, columnCount)

	for name, value := range vals {
		index := nameIndex(name)
		if index < 1 || index > columnCount {
			log(pWARN, "WARNING: Ignoring reported value for '%s'.\n", name)
			continue
		}
		if value < nearZero && value > -nearZero {
			value = 0
		}
		x[index-1] = value
	}

	return x
}

//==============================================================================

// readTextFile returns the content of the file as a string. A missing or
// unreadable file is tolerated and yields the empty string, since solvers
// that fail early may not write all of their artifacts.
func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return string(data)
}

//==============================================================================

// logMessages splits raw log text into the verbatim message list surfaced to
// the caller. Trailing blank lines are dropped; interior lines are kept
// untouched so solver diagnostics survive normalization.
func logMessages(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end == 0 {
		return nil
	}

	return lines[:end]
}

//==============================================================================

// attrValue extracts the value of an attribute-like key="value" token from a
// line of pseudo-XML text. The second return value reports whether the key
// was present.
func attrValue(line string, key string) (string, bool) {
	marker := key + "=\""
	start := strings.Index(line, marker)
	if start < 0 {
		return "", false
	}
	start += len(marker)
	end := strings.Index(line[start:], "\"")
	if end < 0 {
		return "", false
	}

	return line[start : start+end], true
}

//==============================================================================

// floatAfterColon parses the floating-point number that follows the last
// colon of a line, as used in several solver log and solution formats. The
// second return value reports whether a number was found.
func floatAfterColon(line string) (float64, bool) {
	pos := strings.LastIndex(line, ":")
	if pos < 0 {
		return 0, false
	}
	fields := strings.Fields(line[pos+1:])
	if len(fields) == 0 {
		return 0, false
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

//==============================================================================

// secondsBefore extracts the floating-point number immediately preceding the
// word "seconds" in a line (e.g. "Simplex took 0.31 seconds."). The second
// return value reports whether such a number was found.
func secondsBefore(line string) (float64, bool) {
	pos := strings.Index(line, "seconds")
	if pos < 0 {
		return 0, false
	}
	fields := strings.Fields(line[:pos])
	if len(fields) == 0 {
		return 0, false
	}

	value, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

//============================ END OF FILE =====================================
