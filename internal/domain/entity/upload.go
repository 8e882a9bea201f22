package entity

// UploadedFile archivo guardado dentro de la carpeta de un pedido.
type UploadedFile struct {
	Filename string // nombre original enviado por el cliente
	Size     int64
}

// UploadBatch resultado de una subida: carpeta destino y archivos escritos.
// No se persiste; la relación con el pedido existe solo por el nombre de la carpeta.
type UploadBatch struct {
	Pedido string
	Path   string
	Files  []UploadedFile
}
