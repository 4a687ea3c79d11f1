/*
Package formalizer turns short, casual messages into professional emails.

A request is validated (3 to 500 words), turned into a tone-specific prompt and
sent once to a hosted chat-completion model. When the model is not configured,
times out, errors or answers with nothing, a deterministic template built from
the tone's salutation and closing is returned instead. Callers always get an
email for valid input and can tell which path produced it from Outcome.Source.

# Architecture

The core (validation, prompt, fallback, orchestration) is pure and lives under
internal/ and pkg/domain. Adapters plug into the ports in pkg/ports:

  - pkg/adapters/llm: OpenAI-compatible chat-completion client (Groq by default).
  - pkg/adapters/memory, pkg/adapters/redis: per-session history stores.
  - pkg/adapters/http: JSON API plus a single page UI.
  - pkg/adapters/mcp: Model Context Protocol tools for agents.

# Usage

	eng := formalizer.New(formalizer.WithAPIKey(os.Getenv("GROQ_API_KEY")))

	out, err := eng.Formalize(ctx, "hey can u send me the report by friday", domain.ToneProfessional)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			fmt.Println(verr.Reason.Message())
		}
		return
	}
	fmt.Println(out.Source, out.Text)

Without a credential the engine is still fully usable; every request takes the
template path.
*/
package formalizer
