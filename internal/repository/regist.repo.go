package repository

import (
	checkoutRepo "jengamart/internal/repository/checkout"
	flowsessionRepo "jengamart/internal/repository/flowsession"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Checkout    checkoutRepo.IRepository
	FlowSession flowsessionRepo.IStore
}
