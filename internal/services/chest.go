package services

import (
	"fmt"
	"strconv"

	"festreg/internal/domain"
)

// UserChestNumber formats the n-th participant chest number.
func UserChestNumber(n int) string {
	return fmt.Sprintf("%03d", n)
}

// TeamChestNumber formats the team chest number for the n-th team of an event.
func TeamChestNumber(prefix string, n int) string {
	return prefix + strconv.Itoa(100+n)
}

// chestAllocator assigns participant chest numbers inside one transaction.
// Profiles and the global counter are read through tx; write must be called
// once all reads of the enclosing body are done.
type chestAllocator struct {
	tx            domain.Transaction
	counter       domain.Counter
	counterLoaded bool
	chestNos      map[string]string
	assigned      []string
}

func newChestAllocator(tx domain.Transaction) *chestAllocator {
	return &chestAllocator{tx: tx, chestNos: make(map[string]string)}
}

// load reads the existing chest number of each participant.
func (a *chestAllocator) load(uids ...string) error {
	for _, uid := range uids {
		if _, ok := a.chestNos[uid]; ok {
			continue
		}
		var profile domain.UserProfile
		if _, err := a.tx.Get(domain.UserRef(uid), &profile); err != nil {
			return fmt.Errorf("read profile %s: %w", uid, err)
		}
		a.chestNos[uid] = profile.ChestNo
	}
	return nil
}

// assign gives every listed participant without a chest number the next value
// of the global counter. Participants must have been loaded first.
func (a *chestAllocator) assign(uids ...string) error {
	for _, uid := range uids {
		if a.chestNos[uid] != "" {
			continue
		}
		if !a.counterLoaded {
			if _, err := a.tx.Get(domain.UserChestCounterRef(), &a.counter); err != nil {
				return fmt.Errorf("read chest counter: %w", err)
			}
			a.counterLoaded = true
		}
		a.counter.Count++
		a.chestNos[uid] = UserChestNumber(a.counter.Count)
		a.assigned = append(a.assigned, uid)
	}
	return nil
}

func (a *chestAllocator) chestNo(uid string) string {
	return a.chestNos[uid]
}

// write persists the counter and each newly assigned chest number.
func (a *chestAllocator) write() error {
	if len(a.assigned) == 0 {
		return nil
	}
	if err := a.tx.Set(domain.UserChestCounterRef(), a.counter); err != nil {
		return err
	}
	for _, uid := range a.assigned {
		if err := a.tx.Merge(domain.UserRef(uid), map[string]any{"chestNo": a.chestNos[uid]}); err != nil {
			return err
		}
	}
	return nil
}
