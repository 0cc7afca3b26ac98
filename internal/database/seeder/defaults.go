package seeder

func Defaults() []Seeder {
	return []Seeder{
		DemoUserSeeder{Email: DemoEmail, Password: DemoPassword},
	}
}
