package stats

// Agregações derivadas sobre o histórico de apostas de um usuário.
// Tudo aqui é função pura recalculada a cada leitura: nenhum saldo ou
// estatística é persistido, o conjunto de apostas é a única fonte.

// Bet é a visão mínima de aposta para agregação.
type Bet struct {
	ID     string
	GameID string
	Side   string
	Amount float64
	Status string   // "pending" | "won" | "lost"
	Payout *float64 // nulo enquanto pending
}

// Stats é a visão de desempenho e saldo exibida no dashboard do usuário.
type Stats struct {
	TotalBets    int
	WonCount     int
	LostCount    int
	PendingCount int

	TotalStaked  float64 // soma de stakes, qualquer status
	TotalPayouts float64 // soma de payouts das won
	NetProfit    float64 // payouts recebidos - stakes perdidos
	WinRate      float64 // won / (won + lost); 0 sem apostas liquidadas
	AverageStake float64

	// Saldo disponível = inicial + payouts - tudo que foi apostado.
	// Pode ficar negativo; clamp só na exibição (DisplayBalance).
	AvailableBalance float64

	BiggestWin  *Bet // maior payout entre as won
	BiggestLoss *Bet // maior stake entre as lost
}

// DisplayBalance é o saldo para exibição, nunca negativo.
// O valor interno segue negativo para qualquer cálculo.
func (s Stats) DisplayBalance() float64 {
	if s.AvailableBalance < 0 {
		return 0
	}
	return s.AvailableBalance
}

// Aggregate calcula as estatísticas de um usuário a partir do histórico
// completo de apostas e do saldo inicial.
func Aggregate(bets []Bet, startingBalance float64) Stats {
	s := Stats{TotalBets: len(bets)}

	var lostStaked float64
	for i := range bets {
		b := bets[i]
		s.TotalStaked += b.Amount

		switch b.Status {
		case "won":
			s.WonCount++
			if b.Payout != nil {
				s.TotalPayouts += *b.Payout
			}
			if s.BiggestWin == nil || payoutOf(b) > payoutOf(*s.BiggestWin) {
				s.BiggestWin = &bets[i]
			}
		case "lost":
			s.LostCount++
			lostStaked += b.Amount
			if s.BiggestLoss == nil || b.Amount > s.BiggestLoss.Amount {
				s.BiggestLoss = &bets[i]
			}
		default:
			s.PendingCount++
		}
	}

	if settled := s.WonCount + s.LostCount; settled > 0 {
		s.WinRate = float64(s.WonCount) / float64(settled)
	}
	if s.TotalBets > 0 {
		s.AverageStake = s.TotalStaked / float64(s.TotalBets)
	}
	s.NetProfit = s.TotalPayouts - lostStaked
	s.AvailableBalance = startingBalance + s.TotalPayouts - s.TotalStaked

	return s
}

func payoutOf(b Bet) float64 {
	if b.Payout == nil {
		return 0
	}
	return *b.Payout
}

// GameLine é a linha agregada por jogo exibida no histórico do usuário.
type GameLine struct {
	GameID      string
	TotalAmount float64
	Status      string
	Payout      *float64
}

// statusPriority: won > lost > pending na linha agregada do jogo.
var statusPriority = map[string]int{"won": 3, "lost": 2, "pending": 1}

// GroupByGame agrega múltiplas apostas de um usuário no mesmo jogo em uma
// única linha: soma de stakes e o status de maior prioridade.
func GroupByGame(bets []Bet) map[string]GameLine {
	out := make(map[string]GameLine, len(bets))
	for _, b := range bets {
		line, ok := out[b.GameID]
		if !ok {
			out[b.GameID] = GameLine{GameID: b.GameID, TotalAmount: b.Amount, Status: b.Status, Payout: b.Payout}
			continue
		}
		line.TotalAmount += b.Amount
		if statusPriority[b.Status] > statusPriority[line.Status] {
			line.Status = b.Status
			line.Payout = b.Payout
		}
		out[b.GameID] = line
	}
	return out
}
