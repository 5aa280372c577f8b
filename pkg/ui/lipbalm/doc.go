/*
Package lipbalm renders XML-like style tags into terminal output.

Templates mark text with semantic tags whose names are keys of a StyleMap:

	<Header>Install</Header> <Env>ping</Env>

ExpandTags applies the lipgloss style for each known tag and drops unknown tags
while keeping their text. StripTags removes every tag for plain output. Render
runs a text/template first and then expands the result.

The <no-format> tag is only rendered when the output has no color support, so
plain output can carry separators that styling makes redundant:

	<no-format>[</no-format><DryRun>DRY RUN</DryRun><no-format>]</no-format>

Input that is not well-formed XML is returned unchanged. Values interpolated
into templates should be escaped with the template's html function.
*/
package lipbalm
