package generate

// boardPrompt asks for the full board in one shot. The service tends to wrap
// the JSON in commentary, so the response is scanned for the first balanced
// object rather than parsed whole.
const boardPrompt = `Generate a trivia game board as a JSON object with exactly 5 categories.

Requirements:
- The first category must be named "EWS History" and contain 5 specific historical facts about EWS, one per question, with difficulty increasing alongside the point value.
- The other 4 categories may cover any topics (for example science, geography, pop culture, sports, literature).
- Every category has exactly 5 questions with values 200, 400, 600, 800, and 1000, in increasing order of difficulty.
- Every answer must be phrased as a question, e.g. "What is ...?" or "Who is ...?".

Respond with a JSON object of this exact shape:

{
  "categories": [
    {
      "name": "Category Name",
      "questions": [
        { "value": 200, "question": "The clue shown to players", "answer": "What is the answer?" }
      ]
    }
  ]
}

Each "questions" array must contain exactly 5 entries. Do not leave any field empty.`
