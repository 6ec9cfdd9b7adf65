package session

import "time"

// --- 回合计时 ---
//
// 倒计时到点结算和全员选完提前结算共用 resolveRoundLocked，
// 定时器回调带上回合号，晚到的回调不会误伤下一回合。

func (gs *GameSession) startRoundTimer(round int) {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.roundTimer != nil {
		gs.roundTimer.Stop()
	}
	gs.roundTimer = time.AfterFunc(gs.cfg.RoundDuration(), func() {
		gs.resolveRound(round)
	})
}

// startPauseTimer 回合结算后停顿片刻再开下一轮
func (gs *GameSession) startPauseTimer() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.roundTimer != nil {
		gs.roundTimer.Stop()
	}
	gs.roundTimer = time.AfterFunc(gs.cfg.InterRoundPauseDuration(), func() {
		gs.mu.Lock()
		gs.startNextRoundLocked()
		gs.mu.Unlock()
	})
}

func (gs *GameSession) stopRoundTimer() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.roundTimer != nil {
		gs.roundTimer.Stop()
		gs.roundTimer = nil
	}
}
