package document

import "strings"

// Run is one span of text with a single style.
type Run struct {
	Text string `json:"text"`
	Bold bool   `json:"bold"`
}

const (
	boldOpen      = "＊"
	boldCloseWide = "："
	boldCloseHalf = ":"
)

// BoldRuns splits s into styled runs following the description markup
// rule: text between a ＊ and the next ：(or :) renders bold. The
// delimiters stay in the output as literal plain-text characters. A ＊
// without a closing colon is ordinary text. The transform is idempotent:
// tokenizing the concatenation of the produced runs yields the same runs,
// because no characters are added or removed.
func BoldRuns(s string) []Run {
	runs := []Run{}
	emit := func(text string, bold bool) {
		if text == "" {
			return
		}
		if n := len(runs); n > 0 && runs[n-1].Bold == bold {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, Run{Text: text, Bold: bold})
	}

	rest := s
	for rest != "" {
		star := strings.Index(rest, boldOpen)
		if star < 0 {
			emit(rest, false)
			break
		}
		after := rest[star+len(boldOpen):]
		end, closeLen := nextColon(after)
		if end < 0 {
			// unterminated marker stays literal
			emit(rest, false)
			break
		}
		emit(rest[:star]+boldOpen, false)
		emit(after[:end], true)
		emit(after[end:end+closeLen], false)
		rest = after[end+closeLen:]
	}
	return runs
}

// nextColon finds the earliest closing delimiter, full-width or ASCII.
func nextColon(s string) (idx, length int) {
	wide := strings.Index(s, boldCloseWide)
	half := strings.Index(s, boldCloseHalf)
	switch {
	case wide < 0 && half < 0:
		return -1, 0
	case wide < 0:
		return half, len(boldCloseHalf)
	case half < 0:
		return wide, len(boldCloseWide)
	case half < wide:
		return half, len(boldCloseHalf)
	default:
		return wide, len(boldCloseWide)
	}
}

// PlainText reassembles the original string from runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
