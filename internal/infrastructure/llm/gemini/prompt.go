package gemini

import (
	"fmt"
	"strings"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

const noAnswerReply = "Lo siento, no encontré esa información específica en la base de conocimiento"

func buildAnswerPrompt(question string, passages []domain.Passage) string {
	var information strings.Builder
	for _, passage := range passages {
		information.WriteString(passage.Content)
		information.WriteString("\n")
	}

	pages := make([]string, 0, len(passages))
	for _, passage := range passages {
		if page := passage.PageNumber(); page != "" {
			pages = append(pages, page)
		}
	}

	pageRule := ""
	if len(pages) > 0 {
		pageRule = fmt.Sprintf(
			"\n6. Si encuentras la respuesta, incluye al final: La información se encuentra en las páginas: %s",
			strings.Join(pages, ","),
		)
	}

	return fmt.Sprintf(`Eres un asistente especializado en la Escuela Sabática de la Iglesia Adventista.

REGLAS IMPORTANTES:
1. USA ÚNICAMENTE la información proporcionada abajo para responder
2. Si la respuesta está en la información, responde de forma clara y detallada
3. Si NO encuentras la respuesta en la información, di: "%s"
4. NUNCA inventes información o uses conocimiento externo sobre Escuela Sabática
5. Responde SIEMPRE en español de forma amigable y profesional%s

INFORMACIÓN DISPONIBLE:
%s

PREGUNTA DEL USUARIO: %s

RESPUESTA:`, noAnswerReply, pageRule, information.String(), question)
}
