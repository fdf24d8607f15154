package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type PersonRepository struct {
	DB *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

func (r *PersonRepository) Create(person *model.Person) error {
	return r.DB.Create(person).Error
}

func (r *PersonRepository) FindByID(id uint) (*model.Person, error) {
	var person model.Person
	err := r.DB.First(&person, id).Error
	return &person, err
}

func (r *PersonRepository) FindByUID(uid string) (*model.Person, error) {
	var person model.Person
	err := r.DB.Where("uid = ?", uid).First(&person).Error
	return &person, err
}

func (r *PersonRepository) FindByEmail(email string) (*model.Person, error) {
	var person model.Person
	err := r.DB.Where("email = ?", email).First(&person).Error
	return &person, err
}

func (r *PersonRepository) ExistsByUIDOrEmail(uid, email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Person{}).
		Where("uid = ? OR email = ?", uid, email).
		Count(&count).Error
	return count > 0, err
}

func (r *PersonRepository) UpdatePassword(id uint, hashed string) error {
	return r.DB.Model(&model.Person{}).
		Where("id = ?", id).
		Update("password", hashed).
		Error
}

// AdjustBalance 原子地调整余额并返回最新值
func (r *PersonRepository) AdjustBalance(tx *gorm.DB, id uint, delta float64) (float64, error) {
	if tx == nil {
		tx = r.DB
	}
	if err := tx.Model(&model.Person{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
		return 0, err
	}
	var balance float64
	err := tx.Model(&model.Person{}).Where("id = ?", id).Select("balance").Scan(&balance).Error
	return balance, err
}
