package mysql

const insertMissSQL = `
INSERT INTO lookup_misses (query, reason) VALUES (?, ?)
`

const upsertSentimentSQL = `
INSERT INTO sentiment_snapshots
  (place_id, num_reviews, avg_score, positive_ratio, summary, human_summary, keywords, samples)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  num_reviews    = VALUES(num_reviews),
  avg_score      = VALUES(avg_score),
  positive_ratio = VALUES(positive_ratio),
  summary        = VALUES(summary),
  human_summary  = VALUES(human_summary),
  keywords       = VALUES(keywords),
  samples        = VALUES(samples),
  updated_at     = CURRENT_TIMESTAMP
`
