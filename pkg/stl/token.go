package stl

// tokenizer splits ASCII STL input into whitespace-delimited tokens. It is a
// cursor over an immutable byte slice; tokens are substrings of the input
// with no length limit.
type tokenizer struct {
	data []byte
	pos  int
	line int
}

func newTokenizer(data []byte) *tokenizer {
	return &tokenizer{data: data, line: 1}
}

// isSpace treats ASCII whitespace and control bytes (including NUL) as
// separators.
func isSpace(c byte) bool {
	return c <= ' ' || c == 0x7f
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.data) && isSpace(t.data[t.pos]) {
		if t.data[t.pos] == '\n' {
			t.line++
		}
		t.pos++
	}
}

// Next returns the next maximal run of non-whitespace bytes, or "" at end
// of input.
func (t *tokenizer) Next() string {
	t.skipSpace()
	start := t.pos
	for t.pos < len(t.data) && !isSpace(t.data[t.pos]) {
		t.pos++
	}
	return string(t.data[start:t.pos])
}

// Peek returns the token Next would return without advancing.
func (t *tokenizer) Peek() string {
	pos, line := t.pos, t.line
	tok := t.Next()
	t.pos, t.line = pos, line
	return tok
}

// ReadLine returns the rest of the current line without leading blanks or
// the trailing line terminator, and advances past the newline.
func (t *tokenizer) ReadLine() []byte {
	for t.pos < len(t.data) && (t.data[t.pos] == ' ' || t.data[t.pos] == '\t') {
		t.pos++
	}
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] != '\n' {
		t.pos++
	}
	end := t.pos
	if t.pos < len(t.data) {
		t.pos++
		t.line++
	}
	for end > start && isSpace(t.data[end-1]) {
		end--
	}
	return t.data[start:end]
}

// PeekLine returns what ReadLine would return without advancing.
func (t *tokenizer) PeekLine() []byte {
	pos, line := t.pos, t.line
	l := t.ReadLine()
	t.pos, t.line = pos, line
	return l
}

// Line returns the 1-based line of the cursor.
func (t *tokenizer) Line() int {
	return t.line
}
