package model

// Values written into a monday_column question's ColumnValue when the source
// column could not be read. They are shown to the user but never pushed to
// the destination board.
const (
	ColumnValueIncomplete  = "Configuração incompleta"
	ColumnValueNotFound    = "Dados não encontrados"
	ColumnValueLoadError   = "Erro ao carregar dados"
	ColumnValueUnavailable = "Dados não disponíveis"
)

func IsPlaceholder(value string) bool {
	switch value {
	case "", ColumnValueIncomplete, ColumnValueNotFound, ColumnValueLoadError, ColumnValueUnavailable:
		return true
	}
	return false
}
