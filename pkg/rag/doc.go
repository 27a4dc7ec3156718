/*
Package rag composes retrieval results into localized prompts and drives
the language model.

The answerer retrieves the top-k chunks for a query, renders them into a
context block ("Relevant information:" followed by numbered documents),
fills the prompt template for the caller's preferred language, and runs
the model in blocking or streaming mode. Seven languages have templates
(en, zh-HK, zh-CN, ja, ko, th-TH, vi-VN); anything else falls back to
English with a warning.
*/
package rag
