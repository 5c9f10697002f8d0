package chat

import (
	"math/rand"
	"sync"
	"time"

	"github.com/assistant-console/core/internal/console/model"
)

const defaultResponses = "default"

var responses = map[string]map[model.LengthBucket][]string{
	// Asistente de Ventas
	"1": {
		model.LengthShort: {
			"Perfecto, continuemos.",
			"Entendido.",
			"Claro.",
		},
		model.LengthMedium: {
			"Entiendo perfectamente tus necesidades. Permíteme sugerirte una solución personalizada.",
			"Excelente pregunta. Basándome en lo que me comentas, tengo una propuesta para ti.",
			"Agradezco tu confianza. Veamos juntos qué opciones tienes disponibles.",
			"Entendido, identifico lo que buscas. Tengo varias alternativas que podrían funcionar.",
			"Perfecto, así podemos ofrecerte exactamente lo que necesitas.",
		},
		model.LengthLong: {
			"Gracias por compartir esa información conmigo. Basándome en tus requerimientos específicos y considerando tu contexto actual, te propongo una estrategia integral que se adapte perfectamente a tus objetivos.",
			"Excelente, ahora tengo una visión clara de lo que requieres. He identificado tres opciones que podrían ser ideales para tu situación, cada una con beneficios específicos.",
		},
	},
	// Soporte Técnico
	"2": {
		model.LengthShort: {
			"Got it.",
			"Understood.",
			"I see.",
		},
		model.LengthMedium: {
			"I've reviewed your issue and I understand the problem. Let me guide you through the solution step by step.",
			"Thanks for the details. I think I can help you resolve this. First, let's try this approach.",
			"I can see what's happening here. Let's troubleshoot this together to get you back online.",
		},
		model.LengthLong: {
			"Thank you for providing such detailed information. I've analyzed the error logs and identified the root cause. Here's a comprehensive solution that should resolve your issue completely, along with steps to prevent this in the future.",
			"I understand your technical problem thoroughly. Let me walk you through a detailed troubleshooting process. This approach addresses not only your immediate issue but also optimizes your system performance.",
		},
	},
	defaultResponses: {
		model.LengthShort: {
			"Entendido.",
			"Claro.",
			"De acuerdo.",
		},
		model.LengthMedium: {
			"Entendido, procesaré tu solicitud.",
			"Perfecto, aquí está la información que solicitaste.",
			"Gracias por tu pregunta, permíteme ayudarte.",
		},
		model.LengthLong: {
			"Excelente pregunta. Permíteme proporcionarte una respuesta completa y detallada sobre este tema.",
			"Entendido perfectamente. Basándome en los detalles que compartiste, aquí te presento un análisis comprensivo.",
		},
	},
}

// Candidates returns the reply set for an assistant and bucket, falling
// back to the default table and to the medium bucket.
func Candidates(assistantID string, bucket model.LengthBucket) []string {
	table, ok := responses[assistantID]
	if !ok {
		table = responses[defaultResponses]
	}
	if c, ok := table[bucket]; ok && len(c) > 0 {
		return c
	}
	return table[model.LengthMedium]
}

// Responder draws canned replies. It is safe for concurrent use.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder seeds the generator; a zero seed uses the clock.
func NewResponder(seed int64) *Responder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

func (r *Responder) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Respond picks one candidate uniformly.
func (r *Responder) Respond(assistantID string, bucket model.LengthBucket) string {
	c := Candidates(assistantID, bucket)
	return c[r.intn(len(c))]
}

// PickBucket draws short, medium or long weighted by the assistant's
// response-length mix. An empty mix always answers medium.
func (r *Responder) PickBucket(rl model.ResponseLength) model.LengthBucket {
	short, medium, long := max(rl.Short, 0), max(rl.Medium, 0), max(rl.Long, 0)
	total := short + medium + long
	if total == 0 {
		return model.LengthMedium
	}
	n := r.intn(total)
	switch {
	case n < short:
		return model.LengthShort
	case n < short+medium:
		return model.LengthMedium
	default:
		return model.LengthLong
	}
}
