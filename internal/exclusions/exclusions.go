// Package exclusions carga la lista de exclusión de instrumentos.
//
// Formato del archivo: una entrada por línea, o bien un par exacto
// "BASE/SETTLEMENT" o bien un símbolo suelto que excluye cualquier instrumento
// donde aparezca como base o settlement. `#` abre un comentario hasta el final
// de la línea; líneas en blanco se ignoran. El archivo se lee una sola vez al
// arrancar — cambiarlo requiere un restart.
package exclusions

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Set es el conjunto de exclusiones cargado. Read-only tras la carga.
type Set struct {
	pairs map[domain.Instrument]struct{}
	coins map[string]struct{}
}

// Empty devuelve un Set sin exclusiones.
func Empty() *Set {
	return &Set{
		pairs: map[domain.Instrument]struct{}{},
		coins: map[string]struct{}{},
	}
}

// Load lee el archivo de exclusiones. Si el archivo no existe devuelve un Set
// vacío — tener exclusiones es opcional.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("exclusions.Load: open %q: %w", path, err)
	}
	defer f.Close()

	set := Empty()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := cleanLine(scanner.Text())
		if entry == "" {
			continue
		}
		if inst, ok := domain.ParseInstrument(entry); ok {
			set.pairs[inst] = struct{}{}
		} else {
			set.coins[entry] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("exclusions.Load: read %q: %w", path, err)
	}
	return set, nil
}

// cleanLine quita comentarios y espacios de una línea del archivo.
func cleanLine(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.ToUpper(strings.ReplaceAll(line, " ", ""))
}

// Excluded devuelve true si el instrumento está excluido, ya sea por el par
// exacto o porque alguno de sus legs es un coin excluido.
func (s *Set) Excluded(inst domain.Instrument) bool {
	if _, ok := s.pairs[inst]; ok {
		return true
	}
	if _, ok := s.coins[inst.Base]; ok {
		return true
	}
	_, ok := s.coins[inst.Settlement]
	return ok
}

// Pairs devuelve cuántos pares exactos hay excluidos.
func (s *Set) Pairs() int { return len(s.pairs) }

// Coins devuelve cuántos coins sueltos hay excluidos.
func (s *Set) Coins() int { return len(s.coins) }
