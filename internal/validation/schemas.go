package validation

// Form field names, shared by the schemas, the handlers and the templates.
const (
	FieldName          = "nombre"
	FieldCity          = "ciudad"
	FieldCountry       = "pais"
	FieldAddress       = "direccion"
	FieldStarRating    = "estrellas"
	FieldDescription   = "descripcion"
	FieldPricePerNight = "precio_noche"

	FieldDurationDays = "duracion_dias"
	FieldTotalPrice   = "precio_total"
	FieldActivities   = "actividades"
	FieldHotelID      = "hotel_id"
	FieldAvailable    = "disponible"
)

var nameField = Field{
	Name:     FieldName,
	Kind:     Text,
	Required: "El nombre es obligatorio",
	Rules:    []Rule{{Tag: "min=2,max=100", Message: "El nombre debe tener entre 2 y 100 caracteres"}},
}

var HotelSchema = Schema{
	nameField,
	{
		Name:     FieldCity,
		Kind:     Text,
		Required: "La ciudad es obligatoria",
		Rules:    []Rule{{Tag: "min=2,max=80", Message: "La ciudad debe tener entre 2 y 80 caracteres"}},
	},
	{
		Name:     FieldCountry,
		Kind:     Text,
		Required: "El país es obligatorio",
		Rules:    []Rule{{Tag: "min=2,max=80", Message: "El país debe tener entre 2 y 80 caracteres"}},
	},
	{
		Name:     FieldAddress,
		Kind:     Text,
		Optional: true,
		Rules:    []Rule{{Tag: "max=500", Message: "Máximo 500 caracteres"}},
	},
	{
		Name:     FieldStarRating,
		Kind:     Integer,
		Required: "Seleccione el número de estrellas",
		Rules:    []Rule{{Tag: "oneof=1 2 3 4 5", Message: "Las estrellas deben estar entre 1 y 5"}},
	},
	{
		Name:     FieldDescription,
		Kind:     Text,
		Optional: true,
		Rules:    []Rule{{Tag: "max=1000", Message: "Máximo 1000 caracteres"}},
	},
	{
		Name:     FieldPricePerNight,
		Kind:     Decimal,
		Required: "El precio es obligatorio",
		Rules:    []Rule{{Tag: "gt=0", Message: "El precio debe ser mayor a 0"}},
	},
}

var PackageSchema = Schema{
	nameField,
	{
		Name:     FieldDescription,
		Kind:     Text,
		Required: "La descripción es obligatoria",
		Rules:    []Rule{{Tag: "min=10,max=1000", Message: "La descripción debe tener entre 10 y 1000 caracteres"}},
	},
	{
		Name:     FieldDurationDays,
		Kind:     Integer,
		Required: "La duración es obligatoria",
		Rules:    []Rule{{Tag: "min=1,max=365", Message: "Entre 1 y 365 días"}},
	},
	{
		Name:     FieldTotalPrice,
		Kind:     Decimal,
		Required: "El precio es obligatorio",
		Rules:    []Rule{{Tag: "gt=0", Message: "El precio debe ser mayor a 0"}},
	},
	{
		Name:     FieldActivities,
		Kind:     Text,
		Optional: true,
		Rules:    []Rule{{Tag: "max=1000", Message: "Máximo 1000 caracteres"}},
	},
	{
		// existence of the hotel is checked by the caller
		Name:     FieldHotelID,
		Kind:     Integer,
		Required: "Debe seleccionar un hotel",
		Rules:    []Rule{{Tag: "gt=0", Message: "Debe seleccionar un hotel"}},
	},
	{
		Name:     FieldAvailable,
		Kind:     Boolean,
		Optional: true,
		Default:  "true",
	},
}
