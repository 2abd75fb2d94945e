package mcpserver

// HikeFormatContract describes the canonical hike record that LLM
// consumers should follow when logging hikes.
const HikeFormatContract = `# Cairn Hike Record Contract

Every hike logged in Cairn MUST follow this structure. All fields are
strings; parsing is deferred to consumers.

## Fields

| Field | Required | Format |
|---|---|---|
| id | no (assigned when omitted) | unique string |
| name | yes | non-empty, e.g. "Snowdon via Pyg Track" |
| location | yes | non-empty, e.g. "Wales" |
| date | yes | ISO-8601 date, e.g. "2024-05-01" |
| parking | yes | "Yes" or "No" |
| length | yes | decimal as text, e.g. "8.5" (kilometres) |
| difficulty | yes | one of "Easy", "Medium", "Hard", "Expert" |
| description | no | free text |
| weather | no | free text, e.g. "Sunny, light wind" |
| rating | no | single digit "1"–"5" |
| companions | no | free text |

## Rules

1. **createdAt is never supplied.** The storage layer assigns it once on
   create and it cannot be changed afterwards.
2. **Updates replace the whole record.** Supply every field; there are no
   partial patches.
3. **Dates sort the log.** Listings return the most recent date first, so
   use real hike dates, not the logging date.

## Example

` + "```" + `json
{
  "name": "Snowdon via Pyg Track",
  "location": "Wales",
  "date": "2024-05-01",
  "parking": "Yes",
  "length": "8.5",
  "difficulty": "Hard",
  "weather": "Low cloud on the summit",
  "rating": "5",
  "companions": "Ren, Maia"
}
` + "```" + `
`
