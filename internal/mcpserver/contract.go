package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Raido Note Format Contract

Every Markdown note stored in Raido SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # OPTIONAL – first H1 heading is used as fallback
tags:                               # OPTIONAL – YAML list; merged with inline #tags
  - tag-one
  - tag-two
created: 2024-01-15                 # OPTIONAL – ISO-8601 date or datetime
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes.
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **Frontmatter block is optional.** When present, the opening ` + "`" + `---` + "`" + ` fence
   must be the very first line of the file (no leading blank lines); otherwise
   the whole file is treated as body content.
2. **Frontmatter values are opaque strings or lists of strings.** Dates,
   numbers, and booleans are kept verbatim as written; key order is preserved
   on rewrite.
3. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `).
   Tags added through ` + "`" + `update_tags` + "`" + ` are normalized automatically: leading
   ` + "`" + `#` + "`" + ` stripped, lower-cased, whitespace runs replaced with hyphens.
4. **Inline tags** in the body use ` + "`" + `#tag` + "`" + ` and count toward the note's tag
   set next to the frontmatter list.
5. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. To have the link
   survive tooling (rename tracking), reference the full relative path
   including extension: ` + "`" + `[[folder/note.md]]` + "`" + `.
6. **File paths** are relative to the vault root, end with ` + "`" + `.md` + "`" + `, and use
   forward slashes. No ` + "`" + `..` + "`" + ` segments, no leading slash.
7. **Encoding** is UTF-8 with a trailing newline.
8. **No HTML** unless absolutely necessary; prefer Markdown equivalents.

## Example

` + "```" + `markdown
---
title: Weekly standup 2024-01-20
tags:
  - meeting-notes
  - project-x
created: 2024-01-20
---

# Weekly standup 2024-01-20

Discussed rollout of [[projects/search-rework.md]] with the #platform team.

## Action items

- [ ] Ship the new indexer behind a flag
- [ ] Follow up with [[people/ana.md]]
` + "```" + `
`
