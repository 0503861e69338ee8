// Package pathmap mappa percorsi assoluti del progetto a percorsi relativi
// alla build root e tiene traccia di dove ogni sorgente ricompilato finisce
// nell'albero parallelo sotto la directory di build.
package pathmap

import (
	"path/filepath"
	"strings"
)

// recompiledDir è la sottodirectory, sotto la build root, che ospita l'albero
// ricompilato parallelo a quello dei sorgenti originali.
const recompiledDir = ".cldkbuild"

// Mapper è una mappatura bidirezionale tra percorsi assoluti sotto ModuleRoot
// e i corrispondenti percorsi nell'albero ricompilato sotto BuildRoot, più la
// singola funzione di relativizzazione usata ovunque un percorso compaia in
// un argv emesso.
type Mapper struct {
	ModuleRoot string
	BuildRoot  string

	// recompiled indicizza original -> recompiled, costruita in modo totale
	// al momento della registrazione di ogni unità (RegisterUnit).
	recompiled map[string]string
	// original è l'inverso parziale: solo i percorsi effettivamente registrati.
	original map[string]string
}

// New costruisce un Mapper vuoto radicato in moduleRoot/buildRoot.
func New(moduleRoot, buildRoot string) *Mapper {
	return &Mapper{
		ModuleRoot: filepath.Clean(moduleRoot),
		BuildRoot:  filepath.Clean(buildRoot),
		recompiled: make(map[string]string),
		original:   make(map[string]string),
	}
}

// RegisterUnit registra la coppia (original, recompiled) per un'unità di
// compilazione. Chiamata una volta per ogni sorgente che il Native Plan
// Emitter pianifica; rende RecompiledOf totale su quell'insieme.
func (m *Mapper) RegisterUnit(original string) string {
	original = filepath.Clean(original)
	if rec, ok := m.recompiled[original]; ok {
		return rec
	}
	rel, err := filepath.Rel(m.ModuleRoot, original)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Fuori dal module root: ancora il percorso ricompilato al basename
		// per evitare di uscire dall'albero di build.
		rel = filepath.Base(original)
	}
	rec := filepath.Join(m.BuildRoot, recompiledDir, rel)
	rec += ".o"
	m.recompiled[original] = rec
	m.original[rec] = original
	return rec
}

// RecompiledOf è totale sull'insieme dei percorsi registrati: restituisce il
// percorso ricompilato e true se original è stato registrato, altrimenti
// ("", false).
func (m *Mapper) RecompiledOf(original string) (string, bool) {
	rec, ok := m.recompiled[filepath.Clean(original)]
	return rec, ok
}

// OriginalOf è l'inversa parziale di RecompiledOf.
func (m *Mapper) OriginalOf(recompiled string) (string, bool) {
	orig, ok := m.original[filepath.Clean(recompiled)]
	return orig, ok
}

// Relativize è l'unica funzione usata ovunque un percorso compaia in un argv
// emesso dal plan: converte p, se assoluto e sotto BuildRoot, in un percorso
// relativo a BuildRoot con separatori forward-slash (compatibilità make);
// percorsi già relativi o esterni a BuildRoot sono restituiti invariati (solo
// con separatori normalizzati).
func (m *Mapper) Relativize(p string) string {
	if p == "" {
		return p
	}
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(m.BuildRoot, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// RelativizeArgv applies Relativize to every argument that looks like a
// filesystem path occurring after a recognized path-bearing flag prefix
// (e.g. "-I", "-L", "-o"), plus any bare argument containing a path
// separator. It never attempts to parse flag semantics beyond this.
func (m *Mapper) RelativizeArgv(argv []string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = m.relativizeArg(a)
	}
	return out
}

func (m *Mapper) relativizeArg(a string) string {
	for _, prefix := range []string{"-I", "-L", "-o", "-iquote"} {
		if strings.HasPrefix(a, prefix) && len(a) > len(prefix) {
			val := a[len(prefix):]
			return prefix + m.Relativize(val)
		}
	}
	if strings.ContainsAny(a, "/\\") && !strings.HasPrefix(a, "-") {
		return m.Relativize(a)
	}
	return a
}
