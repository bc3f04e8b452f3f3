package worker

// Status texts shown to the requester. The audience is Brazilian, so these
// stay in Portuguese.
const (
	msgNoVideo = "Não foi possível obter o vídeo deste post/reel. " +
		"Pode ser que não tenha vídeo ou o link esteja inválido."
	msgDownloadFailed = "Não consegui baixar o vídeo. " +
		"O post pode ser privado, não ter vídeo ou o link estar inválido."
	msgSummarizing = "Transcrevendo e gerando resumo..."
	msgNoBalance   = "Você não tem saldo de posts. Use /planos e /comprar para recarregar."
	msgConverting  = "Vídeo maior que 50 MB. Convertendo para GIF..."
	msgSentAsGif   = "Enviado como GIF (vídeo > 50 MB)."
	msgConversionFailed = "O vídeo é maior que 50 MB e não foi possível converter para GIF. " +
		"Tente outro link."
	msgSending      = "Enviando..."
	msgSent         = "Video enviado."
	msgLinkReady    = "Link pronto. Válido por tempo limitado."
	msgTooLarge     = "O vídeo é grande demais para ser processado. Tente outro link."
	msgGenericError = "Ocorreu um erro ao baixar ou enviar o vídeo. Tente outro link."
)
