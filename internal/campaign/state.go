package campaign

import "time"

// State representa o estado da janela de campanha de um jogo.
// É derivado do relógio a cada leitura: nada aqui é cacheado ou agendado,
// quem precisa de atualidade re-avalia (os serviços fazem poll de ~30s).
type State string

const (
	StateNotSet    State = "not_set"
	StateScheduled State = "scheduled"
	StateLive      State = "live"
	StateEnded     State = "ended"
)

// StateAt deriva o estado da campanha para o instante informado.
// Janela ausente (qualquer borda nula) => not_set.
// Bordas inclusivas nos dois lados: now == start e now == end contam como live.
func StateAt(startAt, endAt *time.Time, now time.Time) State {
	if startAt == nil || endAt == nil {
		return StateNotSet
	}
	if now.Before(*startAt) {
		return StateScheduled
	}
	if now.After(*endAt) {
		return StateEnded
	}
	return StateLive
}

// Open indica se apostas podem ser aceitas neste estado.
func (s State) Open() bool { return s == StateLive }

// Visible indica se o jogo aparece na lista de jogos disponíveis do usuário
// (campanhas agendadas aparecem, encerradas e sem janela não).
func (s State) Visible() bool { return s == StateScheduled || s == StateLive }
