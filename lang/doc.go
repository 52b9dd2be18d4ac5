// Package lang implements a line-numbered GW-BASIC dialect: a lexer, a
// recursive-descent parser producing a plain AST, and a tree-walking
// interpreter driven by an explicit program counter.
//
// # Programs
//
// Source text is a sequence of physical lines. A line that begins with a
// number is stored in the program, replacing any line with the same number;
// a number alone deletes that line. A line without a number runs at once
// (direct mode).
//
//	10 FOR I = 1 TO 3
//	20 PRINT "HELLO"; I
//	30 NEXT I
//	RUN
//
// Statements on a line are separated by colons. IF branches extend to the
// end of the line, and a WHILE body extends to the end of the line or to a
// WEND on the same line.
//
// # Values
//
// A [Value] is an Integer (32-bit), Single, Double, String, or Nil.
// Arithmetic widens to Double, + concatenates when either side is a String,
// and relational and logical operators yield -1 for true and 0 for false.
//
// # Sessions
//
// A [Session] holds the variables, the stored program, and the control
// stacks. Collaborators are injected with options: output and input
// streams, a [Screen], a [Files] manager, and a [Registry] of built-in
// functions.
//
//	s := lang.New(lang.WithOutput(os.Stdout))
//	if err := s.LoadString(ctx, src); err != nil {
//		return err
//	}
//	return s.Run(ctx)
//
// Every error is derived from one of the kind sentinels such as [ErrSyntax]
// or [ErrDivisionByZero], so errors.Is reports the kind.
package lang
