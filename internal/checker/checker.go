// Package checker turns resolved constants into dependency violations:
// a reference from one pack to a constant defined in another pack the
// referencing pack does not declare a dependency on.
package checker

import (
	"sort"

	"packlens/internal/config"
	"packlens/internal/parsing"
	"packlens/internal/resolver"
)

// ViolationTypeDependency marks a reference to another pack the
// referencing pack does not declare a dependency on. It is the only
// violation type produced today; the field keeps room for further
// boundary checks.
const ViolationTypeDependency = "dependency"

// Violation is one illegal cross-pack reference.
type Violation struct {
	Type            string
	ConstantName    string
	ReferencingFile string
	ReferencingPack string
	DefiningFile    string
	DefiningPack    string
	Location        parsing.Range
}

// Check resolves every reference in every processed file and reports
// violations for packs that enforce dependencies. References no
// resolver can place are skipped — they are external gems or
// dynamically built constants, not evidence of a boundary crossing.
func Check(cfg *config.Configuration, processedFiles []parsing.ProcessedFile, res resolver.ConstantResolver) []Violation {
	var violations []Violation
	for _, pf := range processedFiles {
		referencingPack, ok := cfg.PackSet.ForFile(cfg.AbsoluteRoot, pf.AbsolutePath)
		if !ok || !referencingPack.EnforceDependencies {
			continue
		}

		for _, ref := range pf.UnresolvedReferences {
			constant, ok := res.Resolve(ref)
			if !ok {
				continue
			}
			definingPack, ok := cfg.PackSet.ForFile(cfg.AbsoluteRoot, constant.AbsolutePathOfDefinition)
			if !ok || definingPack.Name == referencingPack.Name {
				continue
			}
			if referencingPack.DependsOn(definingPack.Name) {
				continue
			}
			violations = append(violations, Violation{
				Type:            ViolationTypeDependency,
				ConstantName:    constant.FullyQualifiedName,
				ReferencingFile: pf.AbsolutePath,
				ReferencingPack: referencingPack.Name,
				DefiningFile:    constant.AbsolutePathOfDefinition,
				DefiningPack:    definingPack.Name,
				Location:        ref.Location,
			})
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.ReferencingFile != b.ReferencingFile {
			return a.ReferencingFile < b.ReferencingFile
		}
		if a.Location.StartRow != b.Location.StartRow {
			return a.Location.StartRow < b.Location.StartRow
		}
		return a.ConstantName < b.ConstantName
	})
	return violations
}
