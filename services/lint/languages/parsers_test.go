// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

const root = "/proj"

// =============================================================================
// TYPESCRIPT
// =============================================================================

func TestParseTSC_TypeMismatch(t *testing.T) {
	// tsc --noEmit --pretty false test.ts, for `const x: string = 42;`
	stdout := "test.ts(1,7): error TS2322: Type 'number' is not assignable to type 'string'.\n"

	diags := parseTSC(stdout, "", "/proj/test.ts", root)

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 7, d.Column)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, "TS2322", d.Code)
	assert.Contains(t, d.Message, "is not assignable to type")
	assert.Equal(t, report.ExitFindings, report.ExitCode(diags))
}

func TestParseTSC_ContinuationAndOtherFiles(t *testing.T) {
	stdout := "src/a.ts(4,3): error TS2345: Argument of type 'X' is not assignable to parameter of type 'Y'.\n" +
		"  Property 'id' is missing in type 'X' but required in type 'Y'.\n" +
		"src/b.ts(1,1): error TS1005: ';' expected.\n" +
		"  continuation for b\n"

	diags := parseTSC(stdout, "", "/proj/src/a.ts", root)

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Property 'id' is missing")
	assert.NotContains(t, diags[0].Message, "continuation for b")
}

func TestParseTSC_GlobalError(t *testing.T) {
	stdout := "error TS5058: The specified path does not exist: 'tsconfig.json'.\n"

	diags := parseTSC(stdout, "", "/proj/a.ts", root)

	require.Len(t, diags, 1)
	assert.Equal(t, "TS5058", diags[0].Code)
	assert.Equal(t, 1, diags[0].Line)
}

func TestParseTSC_Clean(t *testing.T) {
	assert.Empty(t, parseTSC("", "", "/proj/a.ts", root))
}

// =============================================================================
// JAVASCRIPT
// =============================================================================

func TestParseNodeCheck(t *testing.T) {
	stderr := "/proj/app.js:3\n" +
		"  let x = ;\n" +
		"          ^\n" +
		"\n" +
		"SyntaxError: Unexpected token ';'\n" +
		"    at wrapSafe (node:internal/modules/cjs/loader:1378:20)\n" +
		"\n" +
		"Node.js v20.11.0\n"

	diags := parseNodeCheck("", stderr, "/proj/app.js", root)

	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 11, diags[0].Column)
	assert.Equal(t, "Unexpected token ';'", diags[0].Message)
	assert.Equal(t, "SyntaxError", diags[0].Code)
}

func TestParseNodeCheck_Clean(t *testing.T) {
	assert.Empty(t, parseNodeCheck("", "", "/proj/app.js", root))
}

// =============================================================================
// GO
// =============================================================================

func TestParseGoVet(t *testing.T) {
	stderr := "# example.com/app\n" +
		"vet: ./main.go:5:2: undefined: fmtt\n" +
		"./main.go:9:2: fmt.Printf format %d has arg s of wrong type string\n" +
		"./other.go:1:1: not ours\n"

	diags := parseGoVet("", stderr, "/proj/main.go", root)

	require.Len(t, diags, 2)
	assert.Equal(t, 5, diags[0].Line)
	assert.Equal(t, 2, diags[0].Column)
	assert.Equal(t, "undefined: fmtt", diags[0].Message)
	assert.Equal(t, 9, diags[1].Line)
}

func TestParseGoVet_CleanProgram(t *testing.T) {
	// go vet clean.go for `package main; func main() {}` prints nothing.
	diags := parseGoVet("", "", "/proj/clean.go", root)

	assert.Empty(t, diags)
	assert.Equal(t, report.ExitClean, report.ExitCode(diags))
}

// =============================================================================
// PYTHON
// =============================================================================

func TestParsePyright(t *testing.T) {
	stdout := `{
  "version": "1.1.380",
  "generalDiagnostics": [
    {
      "file": "/proj/app.py",
      "severity": "error",
      "message": "Type \"Literal[42]\" is not assignable to declared type \"str\"",
      "range": {"start": {"line": 0, "character": 9}, "end": {"line": 0, "character": 11}},
      "rule": "reportAssignmentType"
    },
    {
      "file": "/proj/app.py",
      "severity": "information",
      "message": "Import cycle",
      "range": {"start": {"line": 4, "character": 0}, "end": {"line": 4, "character": 1}}
    },
    {
      "file": "/proj/other.py",
      "severity": "warning",
      "message": "elsewhere",
      "range": {"start": {"line": 1, "character": 1}, "end": {"line": 1, "character": 2}}
    }
  ],
  "summary": {"errorCount": 1, "warningCount": 1, "informationCount": 1}
}`

	diags := parsePyright(stdout, "", "/proj/app.py", root)

	require.Len(t, diags, 2)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 10, diags[0].Column)
	assert.Equal(t, "reportAssignmentType", diags[0].Code)
	assert.Equal(t, diag.SeverityInfo, diags[1].Severity)
	assert.Equal(t, 5, diags[1].Line)
}

func TestParsePyright_Garbage(t *testing.T) {
	assert.Empty(t, parsePyright("No configuration file found.", "", "/proj/a.py", root))
	assert.Empty(t, parsePyright("{not json", "", "/proj/a.py", root))
}

// =============================================================================
// RUST
// =============================================================================

func TestParseRust_Rustc(t *testing.T) {
	stderr := `{"$message_type":"diagnostic","message":"mismatched types","code":{"code":"E0308","explanation":"..."},"level":"error","spans":[{"file_name":"/proj/src/lib.rs","line_start":2,"column_start":18,"is_primary":true}],"children":[],"rendered":"error[E0308]"}
{"$message_type":"diagnostic","message":"unused variable: ` + "`x`" + `","code":{"code":"unused_variables"},"level":"warning","spans":[{"file_name":"/proj/src/lib.rs","line_start":2,"column_start":9,"is_primary":true}]}
{"$message_type":"diagnostic","message":"aborting due to 1 previous error","code":null,"level":"error","spans":[]}
`

	diags := parseRust("", stderr, "/proj/src/lib.rs", root)

	require.Len(t, diags, 2)
	assert.Equal(t, "E0308", diags[0].Code)
	assert.Equal(t, 18, diags[0].Column)
	assert.Equal(t, diag.SeverityWarning, diags[1].Severity)
}

func TestParseRust_Cargo(t *testing.T) {
	stdout := `{"reason":"compiler-artifact","package_id":"dep 0.1.0"}
{"reason":"compiler-message","package_id":"app 0.1.0","message":{"message":"cannot find value ` + "`y`" + ` in this scope","code":{"code":"E0425"},"level":"error","spans":[{"file_name":"src/main.rs","line_start":3,"column_start":13,"is_primary":true}]}}
{"reason":"build-finished","success":false}
`

	diags := parseRust(stdout, "", "/proj/src/main.rs", root)

	require.Len(t, diags, 1)
	assert.Equal(t, "E0425", diags[0].Code)
	assert.Equal(t, 3, diags[0].Line)
}

// =============================================================================
// C / C++ / SWIFT / KOTLIN
// =============================================================================

func TestParseGCCStyle(t *testing.T) {
	stderr := "/proj/main.c: In function 'main':\n" +
		"/proj/main.c:4:9: warning: unused variable 'y' [-Wunused-variable]\n" +
		"/proj/main.c:5:12: error: expected ';' before '}' token\n" +
		"/proj/main.c:2:10: fatal error: missing.h: No such file or directory\n" +
		"/proj/other.h:1:1: error: not ours\n" +
		"compilation terminated.\n"

	diags := parseGCCStyle("", stderr, "/proj/main.c", root)

	require.Len(t, diags, 3)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "-Wunused-variable", diags[0].Code)
	assert.Equal(t, "unused variable 'y'", diags[0].Message)
	assert.Equal(t, diag.SeverityError, diags[1].Severity)
	assert.Equal(t, diag.SeverityError, diags[2].Severity)
}

func TestParseGCCStyle_SwiftAndKotlin(t *testing.T) {
	swift := "/proj/a.swift:2:19: error: cannot convert value of type 'Int' to specified type 'String'\n"
	diags := parseGCCStyle("", swift, "/proj/a.swift", root)
	require.Len(t, diags, 1)
	assert.Equal(t, 19, diags[0].Column)

	kotlin := "a.kt:3:21: error: type mismatch: inferred type is Int but String was expected\n" +
		"warning: some flag is deprecated\n"
	diags = parseGCCStyle("", kotlin, "/proj/a.kt", root)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
}

// =============================================================================
// JAVA
// =============================================================================

func TestParseJavac(t *testing.T) {
	stderr := "Main.java:3: error: incompatible types: int cannot be converted to String\n" +
		"        String x = 42;\n" +
		"                   ^\n" +
		"Main.java:5: warning: [rawtypes] found raw type: List\n" +
		"        List l = null;\n" +
		"        ^\n" +
		"1 error\n" +
		"1 warning\n"

	diags := parseJavac("", stderr, "/proj/Main.java", root)

	require.Len(t, diags, 2)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 20, diags[0].Column)
	assert.Equal(t, diag.SeverityError, diags[0].Severity)
	assert.Equal(t, "rawtypes", diags[1].Code)
	assert.Equal(t, "found raw type: List", diags[1].Message)
	assert.Equal(t, 9, diags[1].Column)
}

// =============================================================================
// SCRIPTING LANGUAGES
// =============================================================================

func TestParseRuby(t *testing.T) {
	stderr := "/proj/app.rb:2: warning: assigned but unused variable - x\n" +
		"/proj/app.rb:5: syntax error, unexpected end-of-input, expecting `end'\n"

	diags := parseRuby("Syntax OK\n", stderr, "/proj/app.rb", root)

	require.Len(t, diags, 2)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, diag.SeverityError, diags[1].Severity)
	assert.Equal(t, 5, diags[1].Line)
}

func TestParsePHPLint_DedupesStreams(t *testing.T) {
	stderr := "PHP Parse error:  syntax error, unexpected end of file in /proj/index.php on line 7\n"
	stdout := "Parse error: syntax error, unexpected end of file in /proj/index.php on line 7\n" +
		"Errors parsing /proj/index.php\n"

	diags := parsePHPLint(stdout, stderr, "/proj/index.php", root)

	require.Len(t, diags, 1)
	assert.Equal(t, 7, diags[0].Line)
	assert.Equal(t, "syntax error, unexpected end of file", diags[0].Message)
}

func TestParsePHPLint_Clean(t *testing.T) {
	assert.Empty(t, parsePHPLint("No syntax errors detected in /proj/index.php\n", "", "/proj/index.php", root))
}

func TestParseShellcheck(t *testing.T) {
	stdout := `[{"file":"/proj/run.sh","line":3,"endLine":3,"column":6,"endColumn":10,"level":"info","code":2086,"message":"Double quote to prevent globbing and word splitting.","fix":null},
{"file":"/proj/run.sh","line":1,"endLine":1,"column":1,"endColumn":1,"level":"error","code":2148,"message":"Tips depend on target shell and yours is unknown."}]`

	diags := parseShellcheck(stdout, "", "/proj/run.sh", root)

	require.Len(t, diags, 2)
	assert.Equal(t, "SC2086", diags[0].Code)
	assert.Equal(t, diag.SeverityInfo, diags[0].Severity)
	assert.Equal(t, diag.SeverityError, diags[1].Severity)
	assert.Equal(t, report.ExitFindings, report.ExitCode(diags))
}

func TestParseShellcheck_StyleOnlyIsClean(t *testing.T) {
	stdout := `[{"file":"/proj/run.sh","line":2,"column":1,"level":"style","code":2006,"message":"Use $(...) notation."}]`

	diags := parseShellcheck(stdout, "", "/proj/run.sh", root)

	require.Len(t, diags, 1)
	assert.Equal(t, report.ExitClean, report.ExitCode(diags))
}

func TestParseLuac(t *testing.T) {
	stderr := "luac5.4: /proj/init.lua:12: 'end' expected (to close 'function' at line 3) near <eof>\n"

	diags := parseLuac("", stderr, "/proj/init.lua", root)

	require.Len(t, diags, 1)
	assert.Equal(t, 12, diags[0].Line)
	assert.Contains(t, diags[0].Message, "'end' expected")
}

// =============================================================================
// HELPERS
// =============================================================================

func TestSameFile(t *testing.T) {
	assert.True(t, sameFile("src/a.ts", "/proj/src/a.ts", "/proj"))
	assert.True(t, sameFile("./src/a.ts", "/proj/src/a.ts", "/proj"))
	assert.True(t, sameFile("/proj/src/a.ts", "/proj/src/a.ts", "/elsewhere"))
	assert.True(t, sameFile("file:///proj/a.kt", "/proj/a.kt", "/"))
	assert.True(t, sameFile("", "/proj/a.ts", "/proj"))
	assert.False(t, sameFile("src/b.ts", "/proj/src/a.ts", "/proj"))
}

func TestCaretColumn(t *testing.T) {
	assert.Equal(t, 5, caretColumn("    ^"))
	assert.Equal(t, 3, caretColumn("  ^~~~"))
	assert.Equal(t, 0, caretColumn("x ^ y"))
	assert.Equal(t, 0, caretColumn(""))
}
