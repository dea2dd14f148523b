package formalizer

const rewritePrompt = `Rewrite the following colloquial spoken text into coherent written-register technical or narrative paragraphs.
Requirements:
1. Keep a clear logical structure.
2. Do not expand sentences or change the original meaning; keep the original order and only turn spoken phrasing into written phrasing.
3. Respond in the same language as the text.
4. If the text contains questions, do not answer them; keep them as they are.
5. Keep numbers exact.
6. Do not drop any information.
Return only the rewritten text.`

const summaryPrompt = `Write a short summary of the following text that highlights its main points and key information.
Respond in the same language as the text, in under 200 characters. Return only the summary.`

const introPrompt = `Based on the following section summaries, write a concise introduction to the article covering:
1. Background: the main problem or challenge the article addresses.
2. Work done: the main measures taken or the system built to address it.
3. Outcome: the main results achieved.
Respond in the same language as the summaries, in under 200 characters. Return only the introduction.`
