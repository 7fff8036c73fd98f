// Package e2e provides end-to-end tests with a large corpus of channel files and multiple inline queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/filebot/internal/keyword"
	"github.com/hyperjump/filebot/internal/models"
)

// E2EFile is a file entry in the E2E corpus, as it would arrive from a channel post.
type E2EFile struct {
	UniqueID string
	Name     string
	Type     string
	Caption  string
	Size     int64
}

// QueryTestCase defines an inline query and the file(s) that must appear in its results.
type QueryTestCase struct {
	Query             string
	ExpectedUniqueIDs []string
	Description       string
}

// Corpus holds files and query test cases for E2E tests.
type Corpus struct {
	Files        []E2EFile
	TestCases    []QueryTestCase
	TotalFiles   int
	TotalQueries int
}

var extByType = map[string]string{
	models.FileTypeDocument: ".pdf",
	models.FileTypeVideo:    ".mkv",
	models.FileTypeAudio:    ".mp3",
}

// BuildCorpus returns a corpus of 120 files and query test cases. Every query phrase
// appears in the name of the file it targets.
func BuildCorpus() *Corpus {
	files := buildFiles(120)
	cases := buildQueryTestCases(files)
	return &Corpus{
		Files:        files,
		TestCases:    cases,
		TotalFiles:   len(files),
		TotalQueries: len(cases),
	}
}

func buildFiles(n int) []E2EFile {
	topics := []struct {
		title   string
		caption string
	}{
		{"Python Programming Guide", "A high-level programming language for web development and data science."},
		{"Kubernetes Container Orchestration", "Automates deployment and scaling of containers."},
		{"React Hooks Tutorial", "Building user interfaces with components."},
		{"Golang Concurrency Patterns", "Goroutines and channels in practice."},
		{"PostgreSQL Relational Database", "Advanced SQL with JSON and full-text search."},
		{"Docker Container Images", "Portable applications across environments."},
		{"Machine Learning Algorithms", "Learning patterns from data."},
		{"Neural Network Deep Learning", "Networks inspired by the brain."},
		{"REST API Design", "Endpoints, methods and status codes."},
		{"GraphQL Query Language", "Clients request exactly what they need."},
		{"TypeScript Type System", "Static types for JavaScript."},
		{"Redis Memory Cache", "Sessions and caching."},
		{"Elasticsearch Analytics Engine", "Search that scales horizontally."},
		{"Terraform Infrastructure Code", "Declarative cloud infrastructure."},
		{"Prometheus Monitoring Metrics", "Time-series based monitoring."},
		{"OAuth Authorization Framework", "Secure delegated access."},
		{"Git Version Control", "Tracking changes in source code."},
		{"Microservices Architecture", "Independent deployment of small services."},
		{"Apache Kafka Streaming", "High throughput event streams."},
		{"Nginx Reverse Proxy", "Load balancing and static files."},
		{"Functional Programming Paradigm", "Computation as pure functions."},
		{"Design Patterns Catalog", "Singleton, factory and friends."},
		{"Cryptography Encryption Basics", "Keys, ciphers and algorithms."},
		{"Load Balancing Availability", "No single points of failure."},
		{"Event Sourcing CQRS", "State as a sequence of events."},
		{"Agile Scrum Sprint", "Two week iterations."},
		{"Unit Testing Mocks", "Isolating dependencies in tests."},
		{"Vector Database Similarity", "Cosine and dot product search."},
		{"Prompt Engineering Examples", "Few-shot prompts that guide models."},
		{"WebSocket Realtime Chat", "Bidirectional communication."},
		{"Rate Limiting Throttling", "Protecting APIs from overload."},
		{"Circuit Breaker Resilience", "Failing fast to stop cascades."},
		{"Distributed Tracing Spans", "Latency breakdown across services."},
		{"Password Hashing Bcrypt", "Resisting rainbow tables."},
		{"Disaster Recovery Runbook", "Failover and restore plans."},
		{"Horizontal Scaling Sharding", "Partitioning data across nodes."},
		{"Progressive Web Apps", "Offline support with service workers."},
		{"Edge Computing Latency", "Running code close to users."},
		{"Graph Database Relationships", "Nodes and edges."},
		{"Chaos Engineering Experiments", "Fault injection in production."},
		{"Canary Release Strategy", "Gradual rollouts that limit blast radius."},
		{"Technical Debt Payoff", "Paying down interest on shortcuts."},
		{"Memory Leak Debugging", "Heap dumps and profilers."},
		{"Graceful Shutdown Signals", "Draining connections on SIGTERM."},
		{"Secrets Management Vault", "Encrypted and audited secrets."},
		{"Service Mesh Istio", "mTLS and observability between services."},
		{"Database Migration Schema", "Evolving schemas safely."},
		{"Fuzz Testing Inputs", "Random input finds edge cases."},
		{"Interstellar Soundtrack", "Hans Zimmer score."},
		{"Inception Director Cut", "Dreams within dreams."},
		{"Matrix Reloaded", "The second film of the trilogy."},
		{"Lofi Study Beats", "Music to focus."},
		{"Jazz Piano Standards", "Classic standards for solo piano."},
		{"Symphony Beethoven Ninth", "Ode to joy."},
		{"Nature Documentary Oceans", "Life under the sea."},
		{"Cooking Pasta Basics", "Fresh pasta from scratch."},
		{"Photography Lighting Course", "Studio and natural light."},
		{"Guitar Chords Beginner", "Open chords and strumming."},
		{"Spanish Language Lessons", "Conversational Spanish for travelers."},
		{"Astronomy Telescope Handbook", "Observing planets and galaxies."},
	}

	out := make([]E2EFile, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		fileType := models.FileTypes[i%len(models.FileTypes)]
		name := strings.ReplaceAll(t.title, " ", ".")
		if i >= len(topics) {
			name = fmt.Sprintf("%s.Part%d", name, i/len(topics)+1)
		}
		out = append(out, E2EFile{
			UniqueID: fmt.Sprintf("AgADe2e%03d", i+1),
			Name:     name + extByType[fileType],
			Type:     fileType,
			Caption:  t.caption,
			Size:     int64(1024 * (i + 1) * 37),
		})
	}
	return out
}

func buildQueryTestCases(files []E2EFile) []QueryTestCase {
	if len(files) == 0 {
		return nil
	}
	phrases := []string{
		"python programming", "kubernetes container", "react hooks", "golang concurrency", "postgresql relational",
		"docker container", "machine learning", "neural network", "rest api", "graphql query",
		"typescript type", "redis memory", "elasticsearch analytics", "terraform infrastructure", "prometheus monitoring",
		"oauth authorization", "git version", "microservices architecture", "apache kafka", "nginx reverse",
		"functional programming", "design patterns", "cryptography encryption", "load balancing", "event sourcing",
		"agile scrum", "unit testing", "vector database", "prompt engineering", "websocket realtime",
		"interstellar soundtrack", "inception", "matrix reloaded", "lofi study", "jazz piano",
		"beethoven ninth", "nature documentary", "pasta", "photography lighting", "guitar chords",
	}
	var cases []QueryTestCase
	for _, p := range phrases {
		var expected []string
		for _, f := range files {
			if containsPhrase(f, p) {
				expected = append(expected, f.UniqueID)
			}
		}
		if len(expected) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:             p,
			ExpectedUniqueIDs: expected,
			Description:       fmt.Sprintf("query %q should return %d files", p, len(expected)),
		})
	}
	return cases
}

// containsPhrase reports whether every word of phrase appears in the file's name.
func containsPhrase(f E2EFile, phrase string) bool {
	words := strings.Fields(strings.ToLower(keyword.NormalizeName(f.Name)))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !set[w] {
			return false
		}
	}
	return true
}

// ToFileInputs converts the corpus files to models.FileInput for indexing.
func (c *Corpus) ToFileInputs() []*models.FileInput {
	out := make([]*models.FileInput, len(c.Files))
	for i := range c.Files {
		f := &c.Files[i]
		out[i] = &models.FileInput{
			FileID:       "BQACAgUAAx" + f.UniqueID,
			FileUniqueID: f.UniqueID,
			FileName:     f.Name,
			FileSize:     f.Size,
			FileType:     f.Type,
			Caption:      f.Caption,
		}
	}
	return out
}
