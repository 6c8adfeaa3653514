package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names as created by the restaurant console.
const (
	CollUsers        = "users"
	CollMenuItems    = "menuitems"
	CollOrders       = "orders"
	CollTables       = "tables"
	CollReservations = "reservations"
	CollInventories  = "inventories"
	CollFeedbacks    = "feedbacks"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Username  string             `bson:"username" json:"username"`
	Role      Role               `bson:"role" json:"role"`
	Status    UserStatus         `bson:"status" json:"status"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
	Price    Money              `bson:"price" json:"price"`
}

type OrderItem struct {
	MenuItem primitive.ObjectID `bson:"menuItem" json:"menuItem"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer        primitive.ObjectID `bson:"customer,omitempty" json:"customer"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalPrice      Money              `bson:"totalPrice" json:"totalPrice"`
	OrderType       string             `bson:"orderType" json:"orderType"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	Status          OrderStatus        `bson:"status" json:"status"`
	SpecialRequests string             `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	AssignedStaff   primitive.ObjectID `bson:"assignedStaff,omitempty" json:"assignedStaff,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type MenuItemRating struct {
	MenuItem primitive.ObjectID `bson:"menuItem" json:"menuItem"`
	Rating   int                `bson:"rating" json:"rating"`
}

type Feedback struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order                 primitive.ObjectID `bson:"order" json:"order"`
	Customer              primitive.ObjectID `bson:"customer" json:"customer"`
	Rating                int                `bson:"rating" json:"rating"`
	Comment               string             `bson:"comment,omitempty" json:"comment,omitempty"`
	MenuItemRatings       []MenuItemRating   `bson:"menuItemRatings" json:"menuItemRatings"`
	Suggestion            string             `bson:"suggestion,omitempty" json:"suggestion,omitempty"`
	Response              string             `bson:"response,omitempty" json:"response,omitempty"`
	ImplementationStatus  string             `bson:"implementationStatus,omitempty" json:"implementationStatus,omitempty"`
	ImplementationComment string             `bson:"implementationComment,omitempty" json:"implementationComment,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
}

type InventoryItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ingredient        string             `bson:"ingredient" json:"ingredient"`
	Quantity          float64            `bson:"quantity" json:"quantity"`
	Unit              string             `bson:"unit" json:"unit"`
	LowStockThreshold float64            `bson:"lowStockThreshold" json:"lowStockThreshold"`
	LastRestocked     time.Time          `bson:"lastRestocked,omitempty" json:"lastRestocked,omitempty"`
	RestockedBy       primitive.ObjectID `bson:"restockedBy,omitempty" json:"restockedBy,omitempty"`
}

// IsLowStock matches the store-side $lte filter.
func (i InventoryItem) IsLowStock() bool { return i.Quantity <= i.LowStockThreshold }

type Table struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TableNumber     int                `bson:"tableNumber" json:"tableNumber"`
	Capacity        int                `bson:"capacity" json:"capacity"`
	Location        string             `bson:"location" json:"location"`
	Status          string             `bson:"status" json:"status"`
	ReservedBy      primitive.ObjectID `bson:"reservedBy,omitempty" json:"reservedBy,omitempty"`
	ReservationTime time.Time          `bson:"reservationTime,omitempty" json:"reservationTime,omitempty"`
}

type Reservation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer        primitive.ObjectID `bson:"customer" json:"customer"`
	AssignedTo      primitive.ObjectID `bson:"assignedto,omitempty" json:"assignedto,omitempty"`
	Table           primitive.ObjectID `bson:"table" json:"table"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	PartySize       int                `bson:"partySize" json:"partySize"`
	SpecialRequests string             `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
}
