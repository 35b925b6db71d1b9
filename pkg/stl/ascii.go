package stl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/pkg/encoding"
)

// State is a position in the ASCII STL grammar.
type State int

// Parser states, in transition order.
const (
	StateError State = iota
	StateSolid
	StateFacet
	StateFacetNormal
	StateNormalX
	StateNormalY
	StateNormalZ
	StateOuter
	StateOuterLoop
	StateVertex
	StateVertexX
	StateVertexY
	StateVertexZ
	StateEndLoop
	StateEndFacet
	StateEndSolid
	StateDone
)

var stateNames = [...]string{
	StateError:       "Error",
	StateSolid:       "Solid",
	StateFacet:       "Facet",
	StateFacetNormal: "FacetNormal",
	StateNormalX:     "NormalX",
	StateNormalY:     "NormalY",
	StateNormalZ:     "NormalZ",
	StateOuter:       "Outer",
	StateOuterLoop:   "OuterLoop",
	StateVertex:      "Vertex",
	StateVertexX:     "VertexX",
	StateVertexY:     "VertexY",
	StateVertexZ:     "VertexZ",
	StateEndLoop:     "EndLoop",
	StateEndFacet:    "EndFacet",
	StateEndSolid:    "EndSolid",
	StateDone:        "Done",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Expected describes the token the state accepts.
func (s State) Expected() string {
	switch s {
	case StateSolid:
		return "solid"
	case StateFacet:
		return "facet or endsolid"
	case StateFacetNormal:
		return "normal"
	case StateNormalX:
		return "normal x component"
	case StateNormalY:
		return "normal y component"
	case StateNormalZ:
		return "normal z component"
	case StateOuter:
		return "outer"
	case StateOuterLoop:
		return "loop"
	case StateVertex:
		return "vertex"
	case StateVertexX:
		return "vertex x coordinate"
	case StateVertexY:
		return "vertex y coordinate"
	case StateVertexZ:
		return "vertex z coordinate"
	case StateEndLoop:
		return "endloop"
	case StateEndFacet:
		return "endfacet"
	case StateEndSolid:
		return "endsolid"
	default:
		return "end of input"
	}
}

type action int

const (
	actionContinue action = iota
	actionName            // consume the rest of the line as the solid name
	actionNormal          // append value to normals
	actionVertex          // append value to vertices
	actionTrailer         // consume the name following endsolid
	actionFail
)

// transition is the result of feeding one token to a state.
type transition struct {
	next   State
	action action
	value  float32
	replay bool // feed the same token to next
	err    error
}

// step is the ASCII grammar. peek is the token after tok and is only
// consulted in StateVertexZ, where endloop ends the vertex list.
func step(s State, tok, peek string) transition {
	switch s {
	case StateSolid:
		return keyword(tok, "solid", StateFacet, actionName)
	case StateFacet:
		if tok == "endsolid" {
			return transition{next: StateEndSolid, replay: true}
		}
		return keyword(tok, "facet", StateFacetNormal, actionContinue)
	case StateFacetNormal:
		return keyword(tok, "normal", StateNormalX, actionContinue)
	case StateNormalX:
		return number(tok, StateNormalY, actionNormal)
	case StateNormalY:
		return number(tok, StateNormalZ, actionNormal)
	case StateNormalZ:
		return number(tok, StateOuter, actionNormal)
	case StateOuter:
		return keyword(tok, "outer", StateOuterLoop, actionContinue)
	case StateOuterLoop:
		return keyword(tok, "loop", StateVertex, actionContinue)
	case StateVertex:
		return keyword(tok, "vertex", StateVertexX, actionContinue)
	case StateVertexX:
		return number(tok, StateVertexY, actionVertex)
	case StateVertexY:
		return number(tok, StateVertexZ, actionVertex)
	case StateVertexZ:
		tr := number(tok, StateVertex, actionVertex)
		if tr.action != actionFail && peek == "endloop" {
			tr.next = StateEndLoop
		}
		return tr
	case StateEndLoop:
		return keyword(tok, "endloop", StateEndFacet, actionContinue)
	case StateEndFacet:
		return keyword(tok, "endfacet", StateFacet, actionContinue)
	case StateEndSolid:
		return keyword(tok, "endsolid", StateDone, actionTrailer)
	}
	return transition{next: StateError, action: actionFail}
}

func keyword(tok, want string, next State, a action) transition {
	if tok != want {
		return transition{next: StateError, action: actionFail}
	}
	return transition{next: next, action: a}
}

func number(tok string, next State, a action) transition {
	if tok == "" {
		return transition{next: StateError, action: actionFail}
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return transition{next: StateError, action: actionFail, err: err}
	}
	return transition{next: next, action: a, value: float32(v)}
}

// DecodeASCII parses ASCII STL text into m. m is replaced only on success.
func (c *Codec) DecodeASCII(m *Mesh, data []byte) error {
	var vertices, normals []float32

	t := newTokenizer(data)
	state := StateSolid
	tok, line := t.Next(), t.Line()
	facetStart := 0

	for state != StateDone {
		peek := ""
		if state == StateVertexZ {
			peek = t.Peek()
		}

		tr := step(state, tok, peek)
		switch tr.action {
		case actionFail:
			return c.syntaxError(&SyntaxError{
				State:    state,
				Expected: state.Expected(),
				Got:      tok,
				Line:     line,
				Err:      tr.err,
			})
		case actionName:
			name := ""
			if !opensFacet(t.PeekLine()) {
				name = encoding.DecodeLabel(t.ReadLine())
			}
			c.log().Debug("parsing ASCII solid", zap.String("name", name))
		case actionNormal:
			normals = append(normals, tr.value)
		case actionVertex:
			vertices = append(vertices, tr.value)
		case actionTrailer:
			t.ReadLine()
		}

		switch {
		case state == StateFacet && tr.next == StateFacetNormal:
			facetStart = len(vertices)
		case state == StateEndLoop:
			if n := (len(vertices) - facetStart) / AxisPerVertex; n != VertexPerFacet {
				return c.syntaxError(&SyntaxError{
					State:    state,
					Expected: fmt.Sprintf("%d vertices before endloop", VertexPerFacet),
					Got:      fmt.Sprintf("%d vertices", n),
					Line:     line,
				})
			}
		}

		state = tr.next
		if !tr.replay && state != StateDone {
			tok, line = t.Next(), t.Line()
		}
	}

	if rest := t.Peek(); rest != "" {
		c.log().Warn("ignoring data after endsolid", zap.String("token", rest), zap.Int("line", t.Line()))
	}

	m.Reset()
	m.Vertices = vertices
	m.Normals = normals
	m.TriangleCount = uint32(len(vertices) / floatsPerFacet)
	return nil
}

// opensFacet reports whether the rest of the solid line is the first facet,
// as in single-line files ("solid facet normal 0 0 1 outer loop ...").
func opensFacet(line []byte) bool {
	f := bytes.Fields(line)
	return len(f) >= 2 && string(f[0]) == "facet" && string(f[1]) == "normal"
}

// solidName flattens name to a single line. A leading facet keyword gets an
// underscore prefix.
func solidName(name string) string {
	f := strings.Fields(name)
	if len(f) > 0 && f[0] == "facet" {
		f[0] = "_facet"
	}
	return strings.Join(f, " ")
}

func (c *Codec) syntaxError(err *SyntaxError) error {
	c.log().Warn("invalid ASCII STL",
		zap.Stringer("state", err.State),
		zap.String("expected", err.Expected),
		zap.String("got", err.Got),
		zap.Int("line", err.Line),
	)
	return err
}

// EncodeASCII writes m as ASCII STL using the codec's SolidName.
func (c *Codec) EncodeASCII(w io.Writer, m *Mesh) error {
	return c.encodeASCII(w, m, c.SolidName)
}

func (c *Codec) encodeASCII(w io.Writer, m *Mesh, name string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	name = solidName(name)

	bw := bufio.NewWriter(w)
	var scratch []byte

	writeVec := func(prefix string, v []float32) {
		scratch = append(scratch[:0], prefix...)
		for i, f := range v {
			if i > 0 {
				scratch = append(scratch, ' ')
			}
			scratch = c.appendFloat(scratch, f)
		}
		scratch = append(scratch, '\n')
		bw.Write(scratch)
	}

	writeLabel(bw, "solid", name)
	zero := make([]float32, floatsPerNormal)
	for i := 0; i < int(m.TriangleCount); i++ {
		normal := zero
		if len(m.Normals) > 0 {
			normal = m.Normals[i*floatsPerNormal : (i+1)*floatsPerNormal]
		}
		writeVec("  facet normal ", normal)
		bw.WriteString("    outer loop\n")
		v := m.Vertices[i*floatsPerFacet:]
		for k := 0; k < VertexPerFacet; k++ {
			writeVec("      vertex ", v[k*AxisPerVertex:(k+1)*AxisPerVertex])
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
	}
	writeLabel(bw, "endsolid", name)

	return bw.Flush()
}

func writeLabel(bw *bufio.Writer, kw, name string) {
	bw.WriteString(kw)
	if name != "" {
		bw.WriteByte(' ')
		bw.WriteString(name)
	}
	bw.WriteByte('\n')
}

// appendFloat formats f with Precision significant digits, or the shortest
// representation that parses back to the same float32 when Precision < 1.
func (c *Codec) appendFloat(dst []byte, f float32) []byte {
	if c.Precision < 1 {
		return strconv.AppendFloat(dst, float64(f), 'g', -1, 32)
	}
	return strconv.AppendFloat(dst, float64(f), 'e', c.Precision-1, 32)
}
