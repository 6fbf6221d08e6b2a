// Package packlens analyzes a Ruby codebase organized into
// independently-owned packs and determines, for every constant
// reference, which file defines the constant — the foundation for
// detecting illegal cross-pack dependencies.
//
// # Pipeline
//
// packlens operates in three phases:
//
//  1. Extract: each Ruby (or ERB) file is parsed with tree-sitter and
//     walked for constant references and constant definitions. Results
//     are cached per file by content digest.
//
//  2. Resolve: references are mapped to defining files, either by the
//     zeitwerk path-convention resolver (directory layout alone) or by
//     the parsed-definitions resolver (aggregated definitions from
//     every file, enabled via experimental_parser).
//
//  3. Check: resolved references crossing a pack boundary without a
//     declared dependency become violations.
//
// # Usage
//
// Load a configuration, create an Engine, and run the check:
//
//	cfg, err := packlens.LoadConfiguration(".")
//	if err != nil { ... }
//	engine, err := packlens.New(cfg)
//	if err != nil { ... }
//	defer engine.Close()
//
//	violations, err := engine.Check(context.Background())
//
// Lower-level access is available through [Engine.ProcessFiles] and
// [Engine.ConstantResolver] for consumers that want the per-file
// extraction results or a resolver snapshot directly.
package packlens
