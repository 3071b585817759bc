package naming

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"picsort/internal/errs"
)

// TimestampLayout formats the capture time prefix, e.g. 2020-09-01_21-42-03.
const TimestampLayout = "2006-01-02_15-04-05"

// Scheme selects which parts make up a target filename.
type Scheme struct {
	KeepOriginalName bool
	PrependTimestamp bool
}

// Usable reports whether the scheme can produce a filename at all.
func (s Scheme) Usable() bool {
	return s.KeepOriginalName || s.PrependTimestamp
}

// SplitName splits name at its last dot. The extension keeps the dot and is
// empty when name contains none.
func SplitName(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// Build returns the target filename for original captured at t. Only a
// scheme with neither part enabled is an error; an original without a stem
// (".jpg") still gets a name.
func Build(original string, t time.Time, scheme Scheme) (string, error) {
	if !scheme.Usable() {
		return "", errs.Wrap(
			errs.ErrConfiguration,
			"naming",
			"build filename",
			fmt.Sprintf("cannot derive a name for %q at %s: enable naming.keep_original_name or naming.prepend_timestamp", original, t.Format(time.DateTime)),
			nil,
		)
	}
	stem, ext := SplitName(original)

	var b strings.Builder
	if scheme.PrependTimestamp {
		b.WriteString(t.Format(TimestampLayout))
	}
	if scheme.KeepOriginalName {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(stem)
	}
	b.WriteString(ext)
	return b.String(), nil
}

var numericSuffix = regexp.MustCompile(`^(.*)_([0-9]+)$`)

// IncrementSuffix returns the next alternate stem: "photo" becomes "photo_00",
// "photo_00" becomes "photo_01" and "photo_09" becomes "photo_10". The number
// is padded to at least two digits and grows as needed.
func IncrementSuffix(stem string) string {
	m := numericSuffix.FindStringSubmatch(stem)
	if m == nil {
		return stem + "_00"
	}
	n, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil || n == math.MaxUint64 {
		// Past the largest countable suffix; start a fresh one.
		return stem + "_00"
	}
	return fmt.Sprintf("%s_%02d", m[1], n+1)
}
