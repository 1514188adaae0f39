package alignment

import (
	"fmt"
	"strconv"
	"strings"
)

// matrixAlphabet is the residue order of the tables below. Ambiguity codes
// B and Z are included; any residue not listed scores as X.
const matrixAlphabet = "ARNDCQEGHILKMFPSTWYVBZX"

// Tables are stored as lower triangles in matrixAlphabet order; row i holds
// the scores against residues 0..i, which makes every matrix symmetric.
const blosum62Table = `
 4
-1  5
-2  0  6
-2 -2  1  6
 0 -3 -3 -3  9
-1  1  0  0 -3  5
-1  0  0  2 -4  2  5
 0 -2  0 -1 -3 -2 -2  6
-2  0  1 -1 -3  0  0 -2  8
-1 -3 -3 -3 -1 -3 -3 -4 -3  4
-1 -2 -3 -4 -1 -2 -3 -4 -3  2  4
-1  2  0 -1 -3  1  1 -2 -1 -3 -2  5
-1 -1 -2 -3 -1  0 -2 -3 -2  1  2 -1  5
-2 -3 -3 -3 -2 -3 -3 -3 -1  0  0 -3  0  6
-1 -2 -2 -1 -3 -1 -1 -2 -2 -3 -3 -1 -2 -4  7
 1 -1  1  0 -1  0  0  0 -1 -2 -2  0 -1 -2 -1  4
 0 -1  0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -2 -1  1  5
-3 -3 -4 -4 -2 -2 -3 -2 -2 -3 -2 -3 -1  1 -4 -3 -2 11
-2 -2 -2 -3 -2 -1 -2 -3  2 -1 -1 -2 -1  3 -3 -2 -2  2  7
 0 -3 -3 -3 -1 -2 -2 -3 -3  3  1 -2  1 -1 -2 -2  0 -3 -1  4
-2 -1  3  4 -3  0  1 -1  0 -3 -4  0 -3 -3 -2  0 -1 -4 -3 -3  4
-1  0  0  1 -3  3  4 -2  0 -3 -3  1 -1 -3 -1  0 -1 -3 -2 -2  1  4
 0 -1 -1 -1 -2 -1 -1 -1 -1 -1 -1 -1 -1 -1 -2  0  0 -2 -1 -1 -1 -1 -1
`

const blosum45Table = `
 5
-2  7
-1  0  6
-2 -1  2  7
-1 -3 -2 -3 12
-1  1  0  0 -3  6
-1  0  0  2 -3  2  6
 0 -2  0 -1 -3 -2 -2  7
-2  0  1  0 -3  1  0 -2 10
-1 -3 -2 -4 -3 -2 -3 -4 -3  5
-1 -2 -3 -3 -2 -2 -2 -3 -2  2  5
-1  3  0  0 -3  1  1 -2 -1 -3 -3  5
-1 -1 -2 -3 -2  0 -2 -2  0  2  2 -1  6
-2 -2 -2 -4 -2 -4 -3 -3 -2  0  1 -3  0  8
-1 -2 -2 -1 -4 -1  0 -2 -2 -2 -3 -1 -2 -3  9
 1 -1  1  0 -1  0  0  0 -1 -2 -3 -1 -2 -2 -1  4
 0 -1  0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -1 -1  2  5
-2 -2 -4 -4 -5 -2 -3 -2 -3 -2 -2 -2 -2  1 -3 -4 -3 15
-2 -1 -2 -2 -3 -1 -2 -3  2  0  0 -1  0  3 -3 -2 -1  3  8
 0 -2 -3 -3 -1 -3 -3 -3 -3  3  1 -2  1  0 -3 -1  0 -3 -1  5
-1 -1  4  5 -2  0  1 -1  0 -3 -3  0 -2 -3 -2  0  0 -4 -2 -3  4
-1  0  0  1 -3  4  4 -2  0 -3 -2  1 -1 -3 -1  0 -1 -2 -2 -3  2  4
 0 -1 -1 -1 -2 -1 -1 -1 -1 -1 -1 -1 -1 -1 -1  0  0 -2 -1 -1 -1 -1 -1
`

const blosum80Table = `
 5
-2  6
-2 -1  6
-2 -2  1  6
-1 -4 -3 -4  9
-1  1  0 -1 -4  6
-1 -1 -1  1 -5  2  6
 0 -3 -1 -2 -4 -2 -3  6
-2  0  0 -2 -4  1  0 -3  8
-2 -3 -4 -4 -2 -3 -4 -5 -4  5
-2 -3 -4 -5 -2 -3 -4 -4 -3  1  4
-1  2  0 -1 -4  1  1 -2 -1 -3 -3  5
-1 -2 -3 -4 -2  0 -2 -4 -2  1  2 -2  6
-3 -4 -4 -4 -3 -4 -4 -4 -2 -1  0 -4  0  6
-1 -2 -3 -2 -4 -2 -2 -3 -3 -4 -3 -1 -3 -4  8
 1 -1  0 -1 -2  0  0 -1 -1 -3 -3 -1 -2 -3 -1  5
 0 -1  0 -1 -1 -1 -1 -2 -2 -1 -2 -1 -1 -2 -2  1  5
-3 -4 -4 -6 -3 -3 -4 -4 -3 -3 -2 -4 -2  0 -5 -4 -4 11
-2 -3 -3 -4 -3 -2 -3 -4  2 -2 -2 -3 -2  3 -4 -2 -2  2  7
 0 -3 -4 -4 -1 -3 -3 -4 -4  3  1 -3  1 -1 -3 -2  0 -3 -2  4
-2 -1  5  5 -4  0  1 -1 -1 -4 -4 -1 -3 -4 -2  0 -1 -5 -3 -4  5
-1  0  0  1 -4  3  4 -3  0 -4 -3  1 -2 -4 -2  0 -1 -4 -3 -3  0  4
-1 -1 -1 -2 -3 -1 -1 -2 -2 -2 -1 -1 -1 -2 -2 -1 -1 -3 -2 -1 -2 -1 -1
`

const pam250Table = `
 2
-2  6
 0  0  2
 0 -1  2  4
-2 -4 -4 -5 12
 0  1  1  2 -5  4
 0 -1  1  3 -5  2  4
 1 -3  0  1 -3 -1  0  5
-1  2  2  1 -3  3  1 -2  6
-1 -2 -2 -2 -2 -2 -2 -3 -2  5
-2 -3 -3 -4 -6 -2 -3 -4 -2  2  6
-1  3  1  0 -5  1  0 -2  0 -2 -3  5
-1  0 -2 -3 -5 -1 -2 -3 -2  2  4  0  6
-3 -4 -3 -6 -4 -5 -5 -5 -2  1  2 -5  0  9
 1  0  0 -1 -3  0 -1  0  0 -2 -3 -1 -2 -5  6
 1  0  1  0  0 -1  0  1 -1 -1 -3  0 -2 -3  1  2
 1 -1  0  0 -2 -1  0  0 -1  0 -2  0 -1 -3  0  1  3
-6  2 -4 -7 -8 -5 -7 -7 -3 -5 -2 -3 -4  0 -6 -2 -5 17
-3 -4 -2 -4  0 -4 -4 -5  0 -1 -1 -4 -2  7 -5 -3 -3  0 10
 0 -2 -2 -2 -2 -2 -2 -1 -2  4  2 -2  2 -1 -1 -1  0 -6 -2  4
 0 -1  2  3 -4  1  3  0  1 -2 -3  1 -2 -4 -1  0  0 -5 -3 -2  3
 0  0  1  3 -5  3  3  0  2 -2 -3  0 -2 -5  0  0 -1 -6 -4 -2  2  3
 0 -1  0 -1 -3 -1 -1 -1 -1 -1 -1 -1 -1 -2 -1  0  0 -4 -2 -1 -1 -1 -1
`

// Matrix is a symmetric amino-acid substitution matrix.
type Matrix struct {
	name   string
	scores [256][256]int8
}

// Name returns the lower-case matrix name.
func (m *Matrix) Name() string {
	return m.name
}

// Score returns the substitution score of a against b. Lower-case residues
// are folded to upper case; residues outside the alphabet score as X.
func (m *Matrix) Score(a, b byte) int {
	return int(m.scores[a][b])
}

// matrixSpec holds a table together with its customary affine gap penalties.
type matrixSpec struct {
	matrix    *Matrix
	gapOpen   int
	gapExtend int
}

var matrices = map[string]matrixSpec{
	"blosum62": {mustParseMatrix("blosum62", blosum62Table), -11, -1},
	"blosum45": {mustParseMatrix("blosum45", blosum45Table), -15, -2},
	"blosum80": {mustParseMatrix("blosum80", blosum80Table), -10, -1},
	"pam250":   {mustParseMatrix("pam250", pam250Table), -14, -2},
}

// MatrixNames lists the built-in substitution matrices.
func MatrixNames() []string {
	return []string{"blosum62", "blosum45", "blosum80", "pam250"}
}

func mustParseMatrix(name, table string) *Matrix {
	m, err := parseMatrix(name, table)
	if err != nil {
		panic(err)
	}
	return m
}

func parseMatrix(name, table string) (*Matrix, error) {
	n := len(matrixAlphabet)
	rows := strings.Split(strings.TrimSpace(table), "\n")
	if len(rows) != n {
		return nil, fmt.Errorf("matrix %s: expected %d rows, got %d", name, n, len(rows))
	}

	dense := make([][]int, n)
	for i := range dense {
		dense[i] = make([]int, n)
	}
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) != i+1 {
			return nil, fmt.Errorf("matrix %s: row %c has %d entries, want %d", name, matrixAlphabet[i], len(fields), i+1)
		}
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("matrix %s: row %c: %w", name, matrixAlphabet[i], err)
			}
			dense[i][j] = v
			dense[j][i] = v
		}
	}

	x := strings.IndexByte(matrixAlphabet, 'X')
	var index [256]int
	for c := range index {
		index[c] = x
	}
	for i := 0; i < n; i++ {
		r := matrixAlphabet[i]
		index[r] = i
		index[r-'A'+'a'] = i
	}

	m := &Matrix{name: name}
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			m.scores[a][b] = int8(dense[index[a]][index[b]])
		}
	}
	return m, nil
}
