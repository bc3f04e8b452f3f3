package caption

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"media-courier-be/internal/pkg/logger"
)

const summarySystemPrompt = `Você vai atuar como um **resumidor inteligente de vídeos do Instagram**.

**Entrada:**
* Transcrição ou conteúdo do vídeo.
* Descrição completa do post do Instagram.

**Tarefa:**
1. Analise o conteúdo do vídeo e a descrição.
2. Ignore completamente todas as hashtags originais da descrição.
3. Extraia apenas os assuntos relevantes, ideias principais e informações úteis.
4. Se a descrição contiver lista ordenada (1., 2., 3. etc.), incorpore essas informações no resumo de forma estruturada e clara.
5. Não invente informações e não inclua opiniões próprias.
6. Seja direto, objetivo e evite repetições.

**Hashtags (obrigatório):**
* A **primeira hashtag** deve ser sempre a **categoria/tema principal do vídeo** (ex.: #receitas, #fitness, #dicasdecarreira, #tutoriais). Uma única palavra ou expressão curta.
* As **outras 9 hashtags** devem ser estratégicas para indexação futura, baseadas exclusivamente no conteúdo real do vídeo.
* Não usar hashtags genéricas como #fyp, #viral, #reels etc.
* Evitar variações repetidas da mesma palavra.
* Formato: todas iniciando com ` + "`#`" + ` e separadas por espaço em uma única linha (total 10 hashtags).

**Formato de saída obrigatório:**

Resumo:
<parágrafo claro e objetivo com as ideias centrais>

Hashtags:
#categoria #hashtag2 #hashtag3 #hashtag4 #hashtag5 #hashtag6 #hashtag7 #hashtag8 #hashtag9 #hashtag10

Linguagem: português claro, direto e informativo.`

// AudioExtractor strips the audio track out of a video when the file is too
// big to transcribe whole.
type AudioExtractor func(ctx context.Context, videoPath string) (string, error)

// OpenAIProvider builds video captions with the OpenAI APIs: Whisper for the
// transcript, a chat model for the summary and hashtags.
type OpenAIProvider struct {
	client                 *openai.Client
	model                  string
	transcriptionSizeLimit int64
	extractAudio           AudioExtractor
	log                    logger.ILogger
}

func NewOpenAIProvider(apiKey, model string, transcriptionSizeLimit int64, extractAudio AudioExtractor, log logger.ILogger) *OpenAIProvider {
	return &OpenAIProvider{
		client:                 openai.NewClient(strings.TrimSpace(apiKey)),
		model:                  model,
		transcriptionSizeLimit: transcriptionSizeLimit,
		extractAudio:           extractAudio,
		log:                    log,
	}
}

// Summary transcribes the video and asks the chat model for a summary plus
// hashtags. A failed transcription is not fatal; the description alone can
// still yield a caption. Returns "" when there is nothing to summarize.
func (p *OpenAIProvider) Summary(ctx context.Context, videoPath, description string) (string, error) {
	transcript, err := p.transcribe(ctx, videoPath)
	if err != nil {
		p.log.Warn("caption", "transcription failed", map[string]interface{}{"error": err.Error()})
		transcript = ""
	}

	if strings.TrimSpace(transcript) == "" && strings.TrimSpace(description) == "" {
		return "", nil
	}

	var parts []string
	if t := strings.TrimSpace(transcript); t != "" {
		parts = append(parts, "Transcrição do vídeo:\n"+t)
	}
	if d := strings.TrimSpace(description); d != "" {
		parts = append(parts, "Descrição do post do Instagram:\n"+d)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(parts, "\n\n---\n\n")},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", nil
	}
	return ParseSummaryResponse(resp.Choices[0].Message.Content), nil
}

// transcribe sends the file to Whisper. Files over the upload limit get their
// audio extracted first; the extracted file is removed afterwards.
func (p *OpenAIProvider) transcribe(ctx context.Context, videoPath string) (string, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return "", err
	}

	filePath := videoPath
	if info.Size() > p.transcriptionSizeLimit && p.extractAudio != nil {
		audioPath, extractErr := p.extractAudio(ctx, videoPath)
		if extractErr != nil {
			p.log.Warn("caption", "audio extraction failed, sending video as-is", map[string]interface{}{
				"error": extractErr.Error(),
			})
		} else {
			filePath = audioPath
			defer os.Remove(audioPath)
		}
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
