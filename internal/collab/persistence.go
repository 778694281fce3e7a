package collab

import "context"

// Persistence is the persistence collaborator: store(job_id,
// exported_artifacts, metadata) (spec §6). Files is keyed by the persisted
// path ("index.html", "article.json", "article.md", "article.pdf",
// "images/{slot}.{ext}", each present only when produced); metadata is
// passed separately, and the local backend writes it as "metadata.json".
type Persistence interface {
	Store(ctx context.Context, jobID string, files map[string][]byte, metadata map[string]any) error
}
