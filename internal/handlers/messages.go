package handlers

const (
	MsgNoQuestions      = "❌ No hay preguntas cargadas. Verifica el banco de preguntas."
	MsgNoActiveQuestion = "❌ No hay pregunta activa. Usa <code>/p</code> primero."
	MsgUseAdvance       = "❌ Usa <code>/siguiente</code> para avanzar entre preguntas. <code>/p</code> solo funciona para la primera pregunta."
	MsgEmptyAnswer      = "❌ Debes proporcionar una respuesta. Ejemplo: <code>/r Tu respuesta aquí</code>"
	MsgForbiddenAdvance = "❌ Solo moderadores pueden avanzar preguntas."
	MsgForbiddenReset   = "❌ Solo moderadores pueden reiniciar el cuestionario."
	MsgRateLimited      = "⏳ Estás respondiendo demasiado rápido. Intenta de nuevo en %d segundos."
	MsgInternalError    = "❌ Ocurrió un error inesperado. Intenta de nuevo."

	MsgShowQuestion    = "📢 <b>Pregunta %d/%d:</b>\n%s"
	MsgAdvanceQuestion = "⏭️ <b>Pregunta %d/%d:</b>\n%s"
	MsgQuizCompleted   = "🎉 ¡Cuestionario completado! Usa <code>/tantos</code> para ver resultados finales."
	MsgQuizReset       = "🔄 ¡Cuestionario reiniciado! Usa <code>/p</code> para empezar."

	MsgAnswerRejected   = "❌ %s <b>(+0)</b> La respuesta '%s' no es válida (muy corta, sin sentido o absurda)."
	MsgJudgeFailed      = "❌ %s Error al procesar la respuesta: no se pudo evaluar en este momento."
	MsgVerdictDiscarded = "🔄 %s El cuestionario se reinició mientras se evaluaba tu respuesta; no se sumaron puntos."
	MsgVerdictHeader    = "%s %s <b>(+%d)</b>\n"
	MsgOfficialAnswer   = "\n\n💡 <b>Respuesta correcta:</b> %s"

	MsgNoScores     = "📊 No hay puntajes registrados aún."
	MsgScoresHeader = "🏆 <b>Puntajes actuales:</b>\n"
	MsgScoreLine    = "%s %s: %d puntos\n"
)

const MsgHelp = `💻 <b>Comandos disponibles:</b>

<b>Para todos:</b>
<code>/p</code> - Muestra la primera pregunta (solo funciona al inicio)
<code>/r [tu respuesta]</code> - Responde a la pregunta actual
<code>/tantos</code> - Muestra los puntajes de todos los participantes
<code>/ayuda</code> - Muestra este mensaje de ayuda

<b>Para moderadores:</b>
<code>/siguiente</code> - Avanza a la siguiente pregunta (la muestra automáticamente)
<code>/reiniciar</code> - Reinicia el cuestionario desde el principio

Todos los comandos también funcionan con <code>!</code> en lugar de <code>/</code>.

<b>Sistema de puntos:</b>
✅ Correcta: +2 puntos
⚠️ Parcial: +1 punto
❌ Incorrecta: 0 puntos

<b>NOTA IMPORTANTE:</b>
- Las respuestas muy cortas, sin sentido o absurdas serán rechazadas automáticamente
- Se detectan respuestas como "jacaranda", "pizza", "qwerty", etc.
- La evaluación es estricta y requiere conceptos técnicos específicos
- Se compara directamente con la respuesta de cátedra
- SIEMPRE se muestra la respuesta correcta, incluso para respuestas inválidas

<b>Modo de juego:</b>
1. El moderador usa <code>/p</code> para mostrar la primera pregunta
2. Varios usuarios pueden responder con <code>/r [respuesta]</code>
3. La IA evalúa de forma estricta y muestra la respuesta correcta
4. El moderador usa <code>/siguiente</code> para avanzar (muestra la pregunta automáticamente)`

// Medals for the first three places of the score report.
var scoreMedals = []string{"🥇", "🥈", "🥉"}

const scoreMarker = "📊"
