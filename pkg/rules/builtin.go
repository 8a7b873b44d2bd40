package rules

import (
	"bytes"
	"fmt"

	"github.com/aretw0/fwlint/pkg/core"
)

// documentStart requires the stream to open with an explicit "---" marker.
type documentStart struct{}

func (documentStart) Name() string { return DocumentStart }

func (documentStart) Check(doc *core.Document) []core.Violation {
	trimmed := bytes.TrimLeft(doc.Raw, " \t\r\n\ufeff")
	if bytes.HasPrefix(trimmed, []byte("---")) {
		return nil
	}
	return []core.Violation{violation(DocumentStart, "", `missing "---" document start marker`)}
}

// legacyMarker starts the section that is allowed to keep escaped text.
var legacyMarker = []byte("legacy_content:")

// noEscapes rejects literal \n and \t sequences in active content. Escaped
// text belongs in literal block scalars.
type noEscapes struct{}

func (noEscapes) Name() string { return NoEscapes }

func (noEscapes) Check(doc *core.Document) []core.Violation {
	active := doc.Raw
	if i := bytes.Index(active, legacyMarker); i >= 0 {
		active = active[:i]
	}

	var out []core.Violation
	for _, seq := range []string{`\n`, `\t`} {
		if n := bytes.Count(active, []byte(seq)); n > 0 {
			line := bytes.Count(active[:bytes.Index(active, []byte(seq))], []byte("\n")) + 1
			out = append(out, violation(NoEscapes, "",
				fmt.Sprintf("%d literal %s escape(s) in active content, first on line %d", n, seq, line)))
		}
	}
	return out
}

// noNBSP rejects non-breaking spaces, which YAML parsers treat inconsistently.
type noNBSP struct{}

func (noNBSP) Name() string { return NoNBSP }

func (noNBSP) Check(doc *core.Document) []core.Violation {
	nbsp := []byte("\u00a0")
	n := bytes.Count(doc.Raw, nbsp)
	if n == 0 {
		return nil
	}
	line := bytes.Count(doc.Raw[:bytes.Index(doc.Raw, nbsp)], []byte("\n")) + 1
	return []core.Violation{violation(NoNBSP, "",
		fmt.Sprintf("%d non-breaking space(s), first on line %d", n, line))}
}
