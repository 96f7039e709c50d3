package mockapi

import "github.com/example/shopfront/internal/model"

// seed populates a small catalog and two accounts: admin@example.com /
// admin-password and customer@example.com / customer-password.
func (s *Server) seed() {
	admin, _ := hashPassword("admin-password")
	customer, _ := hashPassword("customer-password")

	s.addUser(&userRecord{
		User: model.User{
			Email:     "admin@example.com",
			FirstName: "Ada",
			LastName:  "Admin",
			Role:      model.RoleAdmin,
		},
		passwordHash: admin,
	})
	s.addUser(&userRecord{
		User: model.User{
			Email:     "customer@example.com",
			FirstName: "Casey",
			LastName:  "Customer",
			Role:      model.RoleCustomer,
		},
		passwordHash: customer,
	})

	seedProducts := []model.Product{
		{Name: "Classic White Tee", Description: "Everyday cotton t-shirt", Price: 19.99, Category: "men", Stock: 120, Sizes: "S,M,L,XL", Colors: "white,black"},
		{Name: "Denim Jacket", Description: "Mid-weight denim jacket", Price: 89.50, Category: "men", Stock: 35, Sizes: "M,L,XL", Colors: "blue"},
		{Name: "Summer Dress", Description: "Light floral dress", Price: 54.00, Category: "women", Stock: 48, Sizes: "XS,S,M,L", Colors: "red,yellow"},
		{Name: "Wool Scarf", Description: "Soft merino scarf", Price: 32.25, Category: "accessories", Stock: 0, Colors: "grey,navy"},
		{Name: "Canvas Sneakers", Description: "Low-top canvas sneakers", Price: 45.00, Category: "shoes", Stock: 60, Sizes: "38,39,40,41,42", Colors: "white,red"},
		{Name: "Leather Belt", Description: "Full-grain leather belt", Price: 27.75, Category: "accessories", Stock: 80, Sizes: "90,100,110", Colors: "brown,black"},
		{Name: "Hooded Sweatshirt", Description: "Fleece-lined hoodie", Price: 64.00, Category: "women", Stock: 25, Sizes: "S,M,L", Colors: "green,grey"},
		{Name: "Running Shorts", Description: "Breathable training shorts", Price: 24.99, Category: "men", Stock: 95, Sizes: "S,M,L,XL", Colors: "black,blue"},
	}
	for i := range seedProducts {
		s.addProduct(&seedProducts[i])
	}
}

func (s *Server) addUser(rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	rec.ID = s.nextUser
	s.users[rec.ID] = rec
}

func (s *Server) addProduct(p *model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProd++
	p.ID = s.nextProd
	s.products[p.ID] = p
}
