package employee

// Repository defines the read-side access the payroll core needs from the
// employee directory.
type Repository interface {
	GetByID(id int64) (*Employee, error)
	GetByIDs(ids []int64) ([]*Employee, error)
	GetActive() ([]*Employee, error)
	GetIDsByDepartment(department string) ([]int64, error)
}
